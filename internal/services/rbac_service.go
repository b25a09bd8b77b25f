package services

import (
	"fmt"
	"sort"

	"wmsconsole/internal/models"
)

// Capabilities checked by templates and mutating routes
const (
	CapProductCreate    = "product:create"
	CapProductUpdate    = "product:update"
	CapProductDelete    = "product:delete"
	CapProductArchive   = "product:archive"
	CapProductImport    = "product:import"
	CapAuditView        = "audit:view"
	CapInboundCreate    = "inbound:create"
	CapInboundUpdate    = "inbound:update"
	CapInboundDelete    = "inbound:delete"
	CapInboundImport    = "inbound:import"
	CapOutboundCreate   = "outbound:create"
	CapOutboundUpdate   = "outbound:update"
	CapOutboundDelete   = "outbound:delete"
	CapOutboundImport   = "outbound:import"
	CapCycleCountCreate = "cyclecount:create"
)

var (
	everyone    = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleOperator}
	supervisors = []models.Role{models.RoleAdmin, models.RoleManager}
	adminsOnly  = []models.Role{models.RoleAdmin}
)

// DefaultCapabilities is the role matrix of the console
func DefaultCapabilities() map[string][]models.Role {
	return map[string][]models.Role{
		CapProductCreate:    everyone,
		CapProductUpdate:    supervisors,
		CapProductDelete:    adminsOnly,
		CapProductArchive:   everyone,
		CapProductImport:    adminsOnly,
		CapAuditView:        adminsOnly,
		CapInboundCreate:    everyone,
		CapInboundUpdate:    supervisors,
		CapInboundDelete:    adminsOnly,
		CapInboundImport:    adminsOnly,
		CapOutboundCreate:   everyone,
		CapOutboundUpdate:   supervisors,
		CapOutboundDelete:   adminsOnly,
		CapOutboundImport:   adminsOnly,
		CapCycleCountCreate: everyone,
	}
}

// HasPermission reports whether role is one of allowed. An empty role is
// evaluated as the default role.
func HasPermission(role models.Role, allowed ...models.Role) bool {
	if role == "" {
		role = models.DefaultRole
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

type RBACService interface {
	Can(role models.Role, capability string) bool
	Capabilities(role models.Role) []string
}

type rbacService struct {
	matrix map[string][]models.Role
}

// NewRBACService builds the evaluator from the default matrix with overrides
// applied. Overrides may only name known capabilities and roles.
func NewRBACService(overrides map[string][]string) (RBACService, error) {
	matrix := DefaultCapabilities()
	for capability, roles := range overrides {
		if _, ok := matrix[capability]; !ok {
			return nil, fmt.Errorf("unknown capability %q", capability)
		}
		allowed := make([]models.Role, 0, len(roles))
		for _, r := range roles {
			role := models.Role(r)
			if !HasPermission(role, everyone...) {
				return nil, fmt.Errorf("unknown role %q for capability %q", r, capability)
			}
			allowed = append(allowed, role)
		}
		matrix[capability] = allowed
	}
	return &rbacService{matrix: matrix}, nil
}

// Can is false for unknown capabilities
func (s *rbacService) Can(role models.Role, capability string) bool {
	allowed, ok := s.matrix[capability]
	if !ok {
		return false
	}
	return HasPermission(role, allowed...)
}

func (s *rbacService) Capabilities(role models.Role) []string {
	caps := make([]string, 0, len(s.matrix))
	for capability := range s.matrix {
		if s.Can(role, capability) {
			caps = append(caps, capability)
		}
	}
	sort.Strings(caps)
	return caps
}
