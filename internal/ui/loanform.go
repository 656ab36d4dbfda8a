package ui

import (
	"net/url"
)

// Query parameters carrying the loan sub-form state and the clicked element.
const (
	ParamLoan  = "loan"
	ParamClick = "click"

	loanVisible = "visible"
	loanHidden  = "hidden"
)

// LoanForm is the visibility state of the loan sub-form.
type LoanForm struct {
	Visible bool
}

// ParseLoanForm reads the state from its query value. Anything but "visible" is hidden.
func ParseLoanForm(v string) LoanForm {
	return LoanForm{Visible: v == loanVisible}
}

// String returns the query value of the state.
func (f LoanForm) String() string {
	if f.Visible {
		return loanVisible
	}
	return loanHidden
}

// Open shows the sub-form.
func (f LoanForm) Open() LoanForm {
	return LoanForm{Visible: true}
}

// Close hides the sub-form.
func (f LoanForm) Close() LoanForm {
	return LoanForm{}
}

// OutsideClick hides a visible sub-form unless target is the open button or
// lies inside the form container.
func (f LoanForm) OutsideClick(page *Page, target string) LoanForm {
	if !f.Visible {
		return f
	}
	if target == OpenLoanButtonID || page.Contains(LoanContainerID, target) {
		return f
	}
	return f.Close()
}

// ContainerClass is the CSS class list of the form container.
func (f LoanForm) ContainerClass() string {
	if f.Visible {
		return "loan-form-container visible"
	}
	return "loan-form-container hidden"
}

// ClickURL returns the link that reports a click on elementID while the page is in state f.
func ClickURL(path string, f LoanForm, elementID string) string {
	q := url.Values{}
	q.Set(ParamLoan, f.String())
	q.Set(ParamClick, elementID)
	return path + "?" + q.Encode()
}
