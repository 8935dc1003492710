package policy

import (
	"testing"

	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestScopeFor_Table(t *testing.T) {
	tests := []struct {
		name     string
		role     models.Role
		resource Resource
		action   Action
		want     Scope
	}{
		{"admin everything", models.RoleAdmin, ResourceUser, ActionDelete, ScopeAll},
		{"admin resolve", models.RoleAdmin, ResourceComplaint, ActionResolve, ScopeAll},
		{"employee creates own", models.RoleEmployee, ResourceComplaint, ActionCreate, ScopeOwn},
		{"employee deletes own", models.RoleEmployee, ResourceComplaint, ActionDelete, ScopeOwn},
		{"employee cannot resolve", models.RoleEmployee, ResourceComplaint, ActionResolve, ScopeNone},
		{"employee cannot manage users", models.RoleEmployee, ResourceUser, ActionCreate, ScopeNone},
		{"employee cannot see dashboard", models.RoleEmployee, ResourceDashboard, ActionRead, ScopeNone},
		{"manager resolves queue", models.RoleManager, ResourceComplaint, ActionResolve, ScopeQueue},
		{"manager cannot delete", models.RoleManager, ResourceComplaint, ActionDelete, ScopeNone},
		{"it manager marks seen", models.RoleITManager, ResourceComplaint, ActionMarkSeen, ScopeQueue},
		{"owner reads reports", models.RoleOwner, ResourceReport, ActionRead, ScopeAll},
		{"owner cannot resolve", models.RoleOwner, ResourceComplaint, ActionResolve, ScopeNone},
		{"owner cannot edit areas", models.RoleOwner, ResourceArea, ActionUpdate, ScopeNone},
		{"unknown role", models.Role("guest"), ResourceArea, ActionRead, ScopeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScopeFor(tt.role, tt.resource, tt.action))
		})
	}
}

func TestOnlyAdminMutatesRoles(t *testing.T) {
	for _, role := range models.Roles {
		allowed := Allowed(role, ResourceUser, ActionUpdate)
		assert.Equal(t, role == models.RoleAdmin, allowed, role)
	}
}

func TestCheck_ReturnsForbidden(t *testing.T) {
	err := Check(models.RoleOwner, ResourceComplaint, ActionResolve)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.NoError(t, Check(models.RoleAdmin, ResourceComplaint, ActionResolve))
}

func TestQueueFilter_ManagerIsComplementOfITManager(t *testing.T) {
	manager, ok := QueueFor(models.RoleManager)
	assert.True(t, ok)
	it, ok := QueueFor(models.RoleITManager)
	assert.True(t, ok)

	for _, queue := range []*string{nil, strPtr("facilities"), strPtr("it"), strPtr("IT")} {
		assert.NotEqual(t, manager.Matches(queue), it.Matches(queue), "queue %v must belong to exactly one manager", queue)
	}
	assert.True(t, manager.Matches(nil), "complaints with a deleted type stay with facilities")

	_, ok = QueueFor(models.RoleEmployee)
	assert.False(t, ok)
}

func TestCanAccess(t *testing.T) {
	facilities := &models.ComplaintView{
		Complaint: models.Complaint{ID: 1, UserID: 7, Status: models.StatusInProgress},
		Queue:     strPtr("facilities"),
	}
	itIssue := &models.ComplaintView{
		Complaint: models.Complaint{ID: 2, UserID: 7, Status: models.StatusInProgress},
		Queue:     strPtr("it"),
	}
	resolvedIT := &models.ComplaintView{
		Complaint: models.Complaint{ID: 3, UserID: 7, Status: models.StatusResolved},
		Queue:     strPtr("it"),
	}

	employee := Actor{UserID: 7, Role: models.RoleEmployee}
	stranger := Actor{UserID: 8, Role: models.RoleEmployee}
	manager := Actor{UserID: 2, Role: models.RoleManager}
	itManager := Actor{UserID: 3, Role: models.RoleITManager}
	admin := Actor{UserID: 1, Role: models.RoleAdmin}

	assert.True(t, CanAccess(employee, ActionUpdate, facilities))
	assert.False(t, CanAccess(stranger, ActionDelete, facilities))
	assert.True(t, CanAccess(manager, ActionResolve, facilities))
	assert.False(t, CanAccess(manager, ActionResolve, itIssue))
	assert.True(t, CanAccess(itManager, ActionResolve, itIssue))
	assert.False(t, CanAccess(itManager, ActionResolve, facilities))
	assert.False(t, CanAccess(itManager, ActionRead, resolvedIT), "queue scope only covers in-progress complaints")
	assert.True(t, CanAccess(admin, ActionResolve, resolvedIT))
	assert.False(t, CanAccess(Actor{UserID: 9, Role: models.RoleOwner}, ActionRead, facilities))
}
