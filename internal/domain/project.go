package domain

import "time"

// ProjectStage is a descriptive lifecycle marker. Transitions are not enforced.
type ProjectStage string

const (
	ProjectStagePlanning    ProjectStage = "PLANNING"
	ProjectStageDevelopment ProjectStage = "DEVELOPMENT"
	ProjectStageTesting     ProjectStage = "TESTING"
	ProjectStageDeployment  ProjectStage = "DEPLOYMENT"
	ProjectStageCompleted   ProjectStage = "COMPLETED"
)

// Valid reports whether s is a known stage.
func (s ProjectStage) Valid() bool {
	switch s {
	case ProjectStagePlanning, ProjectStageDevelopment, ProjectStageTesting,
		ProjectStageDeployment, ProjectStageCompleted:
		return true
	}
	return false
}

// Project links a customer company with the executor company doing the work.
type Project struct {
	ID                int64
	Name              string
	Status            string
	Description       string
	Stage             ProjectStage
	CustomerCompanyID int64
	ExecutorCompanyID int64
	CustomerCompany   *Company
	ExecutorCompany   *Company
	Functions         []string
	ExpectedResult    string
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasMember reports whether companyID occupies either relationship slot.
func (p *Project) HasMember(companyID int64) bool {
	return p != nil && (p.CustomerCompanyID == companyID || p.ExecutorCompanyID == companyID)
}

// IsCustomer reports whether companyID initiated the project.
func (p *Project) IsCustomer(companyID int64) bool {
	return p != nil && p.CustomerCompanyID == companyID
}
