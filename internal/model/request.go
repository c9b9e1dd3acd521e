package model

import "time"

// Request is a help-desk service request. It exclusively owns its steps,
// comments, data items and attachments (cascade on delete); the requester
// and assignee are referenced users, not owned.
type Request struct {
	BaseModel
	Description string          `gorm:"type:text;column:description;not null" json:"description"`
	Status      RequestStatus   `gorm:"type:varchar(20);column:status;not null" json:"status"`
	Priority    RequestPriority `gorm:"type:varchar(20);column:priority;not null" json:"priority"`
	Category    *string         `gorm:"type:varchar(100);column:category" json:"category,omitempty"`
	SubCategory *string         `gorm:"type:varchar(100);column:sub_category" json:"subCategory,omitempty"`
	RequesterID uint            `gorm:"column:requester_id;not null;index" json:"requesterId"`
	AssignedToID *uint          `gorm:"column:assigned_to_id;index" json:"assignedToId,omitempty"`
	DueDate     *time.Time      `gorm:"type:timestamptz;column:due_date" json:"dueDate,omitempty"`
	CompletedAt *time.Time      `gorm:"type:timestamptz;column:completed_at" json:"completedAt,omitempty"`

	Requester   User          `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	AssignedTo  *User         `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	Steps       []RequestStep `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	Comments    []Comment     `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Data        []RequestData `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"requestData,omitempty"`
	Attachments []Attachment  `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

func (r *Request) TableName() string {
	return "requests"
}

// RequestStep is one append-only audit/workflow entry attached to a request.
// Steps are soft-deleted, never removed; the order column records the position
// among the active steps at creation time and is never renumbered.
type RequestStep struct {
	BaseModel
	RequestID    uint       `gorm:"column:request_id;not null;index" json:"requestId"`
	StepName     string     `gorm:"type:varchar(255);column:step_name;not null" json:"stepName"`
	StepType     string     `gorm:"type:varchar(50);column:step_type" json:"stepType"`
	Order        int        `gorm:"column:step_order;not null" json:"order"`
	Status       StepStatus `gorm:"type:varchar(20);column:status;not null" json:"status"`
	AssignedToID *uint      `gorm:"column:assigned_to_id" json:"assignedToId,omitempty"`
	RoleID       *uint      `gorm:"column:role_id" json:"roleId,omitempty"`
	CompletedAt  *time.Time `gorm:"type:timestamptz;column:completed_at" json:"completedAt,omitempty"`
	Notes        *string    `gorm:"type:text;column:notes" json:"notes,omitempty"`

	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	Role       *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (s *RequestStep) TableName() string {
	return "request_steps"
}

// Comment is an immutable remark on a request. Internal comments are produced
// by system operations such as workflow application.
type Comment struct {
	BaseModel
	RequestID  uint   `gorm:"column:request_id;not null;index" json:"requestId"`
	UserID     uint   `gorm:"column:user_id;not null" json:"userId"`
	Content    string `gorm:"type:text;column:content;not null" json:"content"`
	IsInternal bool   `gorm:"type:boolean;column:is_internal;not null;default:false" json:"isInternal"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (c *Comment) TableName() string {
	return "comments"
}

// RequestData is a free-form name/value item captured with a request.
type RequestData struct {
	BaseModel
	RequestID uint    `gorm:"column:request_id;not null;index" json:"requestId"`
	Name      string  `gorm:"type:varchar(100);column:name;not null" json:"name"`
	Value     string  `gorm:"type:varchar(500);column:value;not null" json:"value"`
	DataType  *string `gorm:"type:varchar(50);column:data_type" json:"dataType,omitempty"`
}

func (d *RequestData) TableName() string {
	return "request_data"
}

// Attachment is the metadata row for a stored file; the binary lives behind
// the storage driver under the Key.
type Attachment struct {
	BaseModel
	RequestID   uint   `gorm:"column:request_id;not null;index" json:"requestId"`
	FileName    string `gorm:"type:varchar(255);column:file_name;not null" json:"fileName"`
	Key         string `gorm:"type:varchar(255);column:storage_key;not null" json:"-"`
	ContentType string `gorm:"type:varchar(100);column:content_type;not null" json:"contentType"`
	FileSize    int64  `gorm:"column:file_size;not null" json:"fileSize"`
}

func (a *Attachment) TableName() string {
	return "attachments"
}
