package app

// Form is the owner of a template.
//
//uibind:handler OnSave Click save
type Form struct {
	save  *Label `uibind:"save"`
	title *Label `uibind:"heading,provided"`
	other int
}

func (f *Form) OnSave() {}
