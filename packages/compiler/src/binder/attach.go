package binder

import (
	"fmt"
	"strconv"
)

// section holds the statements that run while one element is temporarily
// attached to the document.
type section struct {
	expr       string
	statements []string
}

// sections tracks the open and finished attach sections of a unit. A section
// ends before the section that encloses it, so inner elements are looked up
// and detached before their container moves them.
type sections struct {
	open     []*section
	finished []*section
	detach   []string
}

func (s *sections) begin(expr string) {
	s.open = append(s.open, &section{expr: expr})
}

func (s *sections) end() error {
	if len(s.open) == 0 {
		return fmt.Errorf("attach section closed twice")
	}
	top := s.open[len(s.open)-1]
	s.open = s.open[:len(s.open)-1]
	if len(top.statements) > 0 {
		s.finished = append(s.finished, top)
	}
	return nil
}

func (s *sections) add(stmt string) error {
	if len(s.open) == 0 {
		return fmt.Errorf("attach statement %q outside of an attach section", stmt)
	}
	top := s.open[len(s.open)-1]
	top.statements = append(top.statements, stmt)
	return nil
}

func (s *sections) addDetach(stmt string) {
	s.detach = append(s.detach, stmt)
}

// render writes the attach phase: per section, the attachment, its
// statements and the detachment. attach is the qualified AttachToDom func.
func (s *sections) render(attach string) (attachPhase, detachPhase []string) {
	for i, sec := range s.finished {
		record := "attach" + strconv.Itoa(i+1)
		attachPhase = append(attachPhase, record+" := "+attach+"("+sec.expr+")")
		attachPhase = append(attachPhase, sec.statements...)
		attachPhase = append(attachPhase, record+".Detach()")
	}
	return attachPhase, s.detach
}
