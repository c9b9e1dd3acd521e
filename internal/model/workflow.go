package model

// Workflow is a reusable named template of ordered steps that can be applied
// to any request. Templates own their steps exclusively.
type Workflow struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);column:name;not null;uniqueIndex" json:"name"`
	Description string `gorm:"type:text;column:description" json:"description"`
	Category    string `gorm:"type:varchar(100);column:category" json:"category"`
	IsActive    bool   `gorm:"type:boolean;column:is_active;not null;default:true" json:"isActive"`

	Steps []WorkflowStep `gorm:"foreignKey:WorkflowID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
}

func (w *Workflow) TableName() string {
	return "workflows"
}

// WorkflowStep is a step template. It is copied onto a request when the
// workflow is applied and is never mutated by that flow.
type WorkflowStep struct {
	BaseModel
	WorkflowID uint   `gorm:"column:workflow_id;not null;index" json:"workflowId"`
	StepName   string `gorm:"type:varchar(255);column:step_name;not null" json:"stepName"`
	StepType   string `gorm:"type:varchar(50);column:step_type" json:"stepType"`
	Order      int    `gorm:"column:step_order;not null" json:"order"`
	RoleID     *uint  `gorm:"column:role_id" json:"roleId,omitempty"`

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (s *WorkflowStep) TableName() string {
	return "workflow_steps"
}
