package payslip

import (
	"html"
	"net/url"

	"github.com/adonese/hrportal/hr_fields"
	"github.com/rohanthewiz/element"
	"github.com/shopspring/decimal"
)

func currencyOf(p hr_fields.Payslip, fallback string) string {
	if p.Currency != "" {
		return p.Currency
	}
	return fallback
}

func money(amount decimal.Decimal, currency string) string {
	return html.EscapeString(FormatMoney(amount, currency))
}

// Href is the detail page of one payslip.
func Href(employeeID, period string) string {
	return "/payslips/" + url.PathEscape(employeeID) + "/" + url.PathEscape(period)
}

type List struct {
	Employee hr_fields.Employee
	Payslips []hr_fields.Payslip
	Currency string
}

func (l List) Render(b *element.Builder) any {
	b.Section("class", "payslips", "data-employee-id", html.EscapeString(l.Employee.ID)).R(
		b.H2().T("Payslips for "+html.EscapeString(l.Employee.FullName)),
		l.renderTable(b),
	)
	return nil
}

func (l List) renderTable(b *element.Builder) any {
	if len(l.Payslips) == 0 {
		b.P("class", "empty").T("No payslips have been issued yet.")
		return nil
	}
	b.Table("class", "payslip-list").R(
		b.THead().R(
			b.Tr().R(
				b.Th().T("Period"),
				b.Th("class", "amount").T("Gross"),
				b.Th("class", "amount").T("Deductions"),
				b.Th("class", "amount").T("Net pay"),
			),
		),
		b.TBody().R(
			l.renderRows(b),
		),
	)
	return nil
}

func (l List) renderRows(b *element.Builder) any {
	for _, p := range l.Payslips {
		currency := currencyOf(p, l.Currency)
		b.Tr("data-period", html.EscapeString(p.Period)).R(
			b.Td().R(
				b.A("href", html.EscapeString(Href(l.Employee.ID, p.Period))).T(html.EscapeString(p.Period)),
			),
			b.Td("class", "amount").T(money(p.Gross, currency)),
			b.Td("class", "amount").T(money(p.Deductions, currency)),
			b.Td("class", "amount").T(money(p.Net, currency)),
		)
	}
	return nil
}

// Detail is a single payslip. The bank account is only ever shown masked.
type Detail struct {
	Employee hr_fields.Employee
	Payslip  hr_fields.Payslip
	Currency string
}

func (d Detail) Render(b *element.Builder) any {
	p := d.Payslip
	currency := currencyOf(p, d.Currency)
	b.Article("class", "payslip", "data-period", html.EscapeString(p.Period)).R(
		b.H2().T("Payslip "+html.EscapeString(p.Period)),
		b.Dl("class", "payslip-summary").R(
			b.Dt().T("Employee"),
			b.Dd().T(html.EscapeString(d.Employee.FullName)),
			b.Dt().T("Gross"),
			b.Dd("class", "amount").T(money(p.Gross, currency)),
			b.Dt().T("Deductions"),
			b.Dd("class", "amount").T(money(p.Deductions, currency)),
			b.Dt().T("Net pay"),
			b.Dd("class", "amount net").T(money(p.Net, currency)),
			d.renderAccount(b),
			b.Dt().T("Issued"),
			b.Dd().T(p.IssuedAt.Format(hr_fields.DateLayout)),
		),
		b.A("href", "/payslips/"+html.EscapeString(url.PathEscape(d.Employee.ID))).T("All payslips"),
	)
	return nil
}

func (d Detail) renderAccount(b *element.Builder) any {
	if d.Payslip.BankAccount == "" {
		return nil
	}
	b.Dt().T("Paid to")
	b.Dd().T(html.EscapeString(d.Payslip.MaskedAccount()))
	return nil
}
