package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// DepartmentLabsKey returns the cache key for a department's lab list.
func (r *CacheKeyStruct) DepartmentLabsKey(departmentID string) string {
	return fmt.Sprintf("department:%s:labs", departmentID)
}

// DepartmentFacultyKey returns the cache key for a department's faculty roster.
func (r *CacheKeyStruct) DepartmentFacultyKey(departmentID string) string {
	return fmt.Sprintf("department:%s:faculty", departmentID)
}

// RegulationDepartmentsKey returns the cache key for a regulation's departments.
func (r *CacheKeyStruct) RegulationDepartmentsKey(regulationID string) string {
	return fmt.Sprintf("regulation:%s:departments", regulationID)
}

// PhaseTimingsKey returns the cache key for a phase's session timings.
func (r *CacheKeyStruct) PhaseTimingsKey(phaseID string) string {
	return fmt.Sprintf("phase:%s:timings", phaseID)
}

// AdminSessionKey returns the cache key for an admin's active session.
func (r *CacheKeyStruct) AdminSessionKey(adminID int) string {
	return fmt.Sprintf("admin_login:%d", adminID)
}

var CacheKey = NewCacheKeyStruct()
