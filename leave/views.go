package leave

import (
	"html"
	"strconv"

	"github.com/adonese/hrportal/hr_fields"
	"github.com/rohanthewiz/element"
)

// Management lists one employee's leave requests.
type Management struct {
	Employee hr_fields.Employee
	Requests []hr_fields.LeaveRequest
}

func (m Management) Render(b *element.Builder) any {
	b.Section("class", "leave-management", "data-employee-id", html.EscapeString(m.Employee.ID)).R(
		b.H2().T("Leave for "+html.EscapeString(m.Employee.FullName)),
		m.renderRole(b),
		m.renderRequests(b),
	)
	return nil
}

func (m Management) renderRole(b *element.Builder) any {
	role := m.Employee.Position
	if m.Employee.Department != "" {
		if role != "" {
			role += ", "
		}
		role += m.Employee.Department
	}
	if role != "" {
		b.P("class", "muted").T(html.EscapeString(role))
	}
	return nil
}

func (m Management) renderRequests(b *element.Builder) any {
	if len(m.Requests) == 0 {
		b.P("class", "empty").T("No leave requests yet.")
		return nil
	}
	b.Table("class", "leave-requests").R(
		b.THead().R(
			b.Tr().R(
				b.Th().T("Type"),
				b.Th().T("Start"),
				b.Th().T("End"),
				b.Th("class", "amount").T("Days"),
				b.Th().T("Status"),
				b.Th().T("Reason"),
			),
		),
		b.TBody().R(
			m.renderRows(b),
		),
	)
	return nil
}

func (m Management) renderRows(b *element.Builder) any {
	for _, r := range m.Requests {
		b.Tr("data-request-id", strconv.FormatInt(r.ID, 10)).R(
			b.Td().T(html.EscapeString(string(r.Type))),
			b.Td().T(html.EscapeString(r.StartDate)),
			b.Td().T(html.EscapeString(r.EndDate)),
			b.Td("class", "amount").T(strconv.Itoa(r.Days())),
			b.Td("class", "status status-"+html.EscapeString(string(r.Status))).T(html.EscapeString(string(r.Status))),
			b.Td().T(html.EscapeString(r.Reason)),
		)
	}
	return nil
}
