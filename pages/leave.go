package pages

import (
	"context"

	"github.com/rohanthewiz/element"
)

// LeaveManagement builds the employee leave-management view. Implementations
// own everything about the identifier: validation, lookup and failure display.
type LeaveManagement interface {
	EmployeeLeaveManagement(ctx context.Context, id string) element.Component
}

// LeavePage renders exactly one leave-management view for the route's id,
// passed through as captured.
func LeavePage(ctx context.Context, leave LeaveManagement, params Params) element.Component {
	return leave.EmployeeLeaveManagement(ctx, params.ID())
}
