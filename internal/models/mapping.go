// internal/models/mapping.go
package models

// Role is a logical column of the uploaded roster. A ColumnMapping binds each
// role to a literal header of the upload.
type Role string

const (
	RoleLastName              Role = "last_name"
	RoleFirstName             Role = "first_name"
	RoleReservationDate       Role = "reservation_date"
	RoleBriefingStatus        Role = "briefing_status"
	RoleSelectionStatus       Role = "selection_status"
	RoleFirstInterviewDate    Role = "first_interview_date"
	RoleFirstInterviewResult  Role = "first_interview_result"
	RoleInvitationDate        Role = "invitation_date"
	RoleSecondInterviewDate   Role = "second_interview_date"
	RoleSecondInterviewResult Role = "second_interview_result"
	RoleFinalInterviewDate    Role = "final_interview_date"
	RoleFinalInterviewResult  Role = "final_interview_result"
	RoleFinalStatus           Role = "final_status"
	RoleSurveyStatus          Role = "survey_status"
	RolePhoneStatus           Role = "phone_status"
	RoleEmailStatus           Role = "email_status"
	RoleDocumentStatus        Role = "document_status"
)

// RoleSpec describes how a role participates in an analysis run.
type RoleSpec struct {
	Role     Role
	Label    string
	Required bool
	Date     bool
}

// Roles is the ordered role catalog. Required roles must resolve to a header
// of every upload; optional roles may be left empty.
var Roles = []RoleSpec{
	{Role: RoleLastName, Label: "姓", Required: true},
	{Role: RoleFirstName, Label: "名"},
	{Role: RoleReservationDate, Label: "説明会予約日", Required: true, Date: true},
	{Role: RoleBriefingStatus, Label: "説明会参加状態", Required: true},
	{Role: RoleSelectionStatus, Label: "選考希望状態", Required: true},
	{Role: RoleFirstInterviewDate, Label: "一次選考日程", Required: true, Date: true},
	{Role: RoleFirstInterviewResult, Label: "一次選考結果", Required: true},
	{Role: RoleInvitationDate, Label: "二次案内日", Date: true},
	{Role: RoleSecondInterviewDate, Label: "二次選考日程", Date: true},
	{Role: RoleSecondInterviewResult, Label: "二次選考結果"},
	{Role: RoleFinalInterviewDate, Label: "最終選考日程", Date: true},
	{Role: RoleFinalInterviewResult, Label: "最終選考結果"},
	{Role: RoleFinalStatus, Label: "内定状況"},
	{Role: RoleSurveyStatus, Label: "事前アンケート"},
	{Role: RolePhoneStatus, Label: "電話確認"},
	{Role: RoleEmailStatus, Label: "メール開封"},
	{Role: RoleDocumentStatus, Label: "履歴書回収"},
}

// LookupRole returns the catalog entry for r.
func LookupRole(r Role) (RoleSpec, bool) {
	for _, rs := range Roles {
		if rs.Role == r {
			return rs, true
		}
	}
	return RoleSpec{}, false
}

// DateRoles returns the roles whose cells are parsed as dates.
func DateRoles() []Role {
	var out []Role
	for _, rs := range Roles {
		if rs.Date {
			out = append(out, rs.Role)
		}
	}
	return out
}

// ColumnMapping binds roles to upload headers. It is supplied once per
// analysis run and never mutated by the engine.
type ColumnMapping struct {
	LastName              string `json:"lastName,omitempty" mapstructure:"last_name"`
	FirstName             string `json:"firstName,omitempty" mapstructure:"first_name"`
	ReservationDate       string `json:"reservationDate,omitempty" mapstructure:"reservation_date"`
	BriefingStatus        string `json:"briefingStatus,omitempty" mapstructure:"briefing_status"`
	SelectionStatus       string `json:"selectionStatus,omitempty" mapstructure:"selection_status"`
	FirstInterviewDate    string `json:"firstInterviewDate,omitempty" mapstructure:"first_interview_date"`
	FirstInterviewResult  string `json:"firstInterviewResult,omitempty" mapstructure:"first_interview_result"`
	InvitationDate        string `json:"invitationDate,omitempty" mapstructure:"invitation_date"`
	SecondInterviewDate   string `json:"secondInterviewDate,omitempty" mapstructure:"second_interview_date"`
	SecondInterviewResult string `json:"secondInterviewResult,omitempty" mapstructure:"second_interview_result"`
	FinalInterviewDate    string `json:"finalInterviewDate,omitempty" mapstructure:"final_interview_date"`
	FinalInterviewResult  string `json:"finalInterviewResult,omitempty" mapstructure:"final_interview_result"`
	FinalStatus           string `json:"finalStatus,omitempty" mapstructure:"final_status"`
	SurveyStatus          string `json:"surveyStatus,omitempty" mapstructure:"survey_status"`
	PhoneStatus           string `json:"phoneStatus,omitempty" mapstructure:"phone_status"`
	EmailStatus           string `json:"emailStatus,omitempty" mapstructure:"email_status"`
	DocumentStatus        string `json:"documentStatus,omitempty" mapstructure:"document_status"`
}

func (m *ColumnMapping) field(r Role) *string {
	switch r {
	case RoleLastName:
		return &m.LastName
	case RoleFirstName:
		return &m.FirstName
	case RoleReservationDate:
		return &m.ReservationDate
	case RoleBriefingStatus:
		return &m.BriefingStatus
	case RoleSelectionStatus:
		return &m.SelectionStatus
	case RoleFirstInterviewDate:
		return &m.FirstInterviewDate
	case RoleFirstInterviewResult:
		return &m.FirstInterviewResult
	case RoleInvitationDate:
		return &m.InvitationDate
	case RoleSecondInterviewDate:
		return &m.SecondInterviewDate
	case RoleSecondInterviewResult:
		return &m.SecondInterviewResult
	case RoleFinalInterviewDate:
		return &m.FinalInterviewDate
	case RoleFinalInterviewResult:
		return &m.FinalInterviewResult
	case RoleFinalStatus:
		return &m.FinalStatus
	case RoleSurveyStatus:
		return &m.SurveyStatus
	case RolePhoneStatus:
		return &m.PhoneStatus
	case RoleEmailStatus:
		return &m.EmailStatus
	case RoleDocumentStatus:
		return &m.DocumentStatus
	}
	return nil
}

// Column returns the header bound to r, or "" when r is unmapped.
func (m ColumnMapping) Column(r Role) string {
	if f := m.field(r); f != nil {
		return *f
	}
	return ""
}

// Mapped reports whether r is bound to a header.
func (m ColumnMapping) Mapped(r Role) bool {
	return m.Column(r) != ""
}

// Set binds r to column. Unknown roles are ignored.
func (m *ColumnMapping) Set(r Role, column string) {
	if f := m.field(r); f != nil {
		*f = column
	}
}

// Merge returns a copy of m where every role mapped in override replaces m's binding.
func (m ColumnMapping) Merge(override ColumnMapping) ColumnMapping {
	out := m
	for _, rs := range Roles {
		if col := override.Column(rs.Role); col != "" {
			out.Set(rs.Role, col)
		}
	}
	return out
}
