package models

import "time"

type UserRole string

const (
	RoleSuperAdmin  UserRole = "super_admin"  // administrador da plataforma
	RoleTenantAdmin UserRole = "tenant_admin" // administrador da oficina
	RoleEmployee    UserRole = "employee"     // funcionário (mecânico/atendente)
)

type User struct {
	ID           uint `gorm:"primaryKey"`
	TenantID     *uint
	Tenant       *Tenant
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
