package store

import (
	"time"

	"github.com/spigell/jale-assistant/internal/matching"
)

// Status values written by the assistant.
const (
	JobOpen                        = "open"
	MatchPending                   = "pending"
	MatchInterviewScheduled        = "interview_scheduled"
	MatchInterviewed               = "interviewed"
	InterviewScheduled             = "scheduled"
	InterviewCancelled             = "cancelled"
	InterviewCompleted             = "completed"
	MessageTypeText                = "text"
	MessageTypeOutreach            = "outreach"
	MessageTypeInterview           = "interview_scheduled"
	MessageTypeInterviewCancelled  = "interview_cancelled"
	NotificationInterview          = "interview_scheduled"
	NotificationInterviewCancelled = "interview_cancelled"
	NotificationReminder           = "interview_reminder"
	SystemSender                   = "system"
	AssistantSender                = "assistant"
	UserTypeWorker                 = "worker"
	UserTypeEmployer               = "employer"
)

type User struct {
	ID            string   `mapstructure:"id"`
	Email         string   `mapstructure:"email"`
	Name          string   `mapstructure:"name"`
	UserType      string   `mapstructure:"userType"`
	Company       string   `mapstructure:"company"`
	Language      string   `mapstructure:"language"`
	Location      string   `mapstructure:"location"`
	Pay           string   `mapstructure:"pay"`
	Availability  string   `mapstructure:"availability"`
	SkillsOffered []string `mapstructure:"skillsOffered"`
}

// Profile is the scoring view of a worker.
func (u *User) Profile() matching.Profile {
	return matching.Profile{
		Name:          u.Name,
		SkillsOffered: u.SkillsOffered,
		Location:      u.Location,
		Pay:           u.Pay,
		Availability:  u.Availability,
	}
}

func (u *User) Record() Record {
	return Record{
		"email":         u.Email,
		"name":          u.Name,
		"userType":      u.UserType,
		"company":       u.Company,
		"language":      u.Language,
		"location":      u.Location,
		"pay":           u.Pay,
		"availability":  u.Availability,
		"skillsOffered": u.SkillsOffered,
	}
}

type Job struct {
	ID           string    `mapstructure:"id"`
	EmployerID   string    `mapstructure:"employerId"`
	Title        string    `mapstructure:"title"`
	Description  string    `mapstructure:"description"`
	Location     string    `mapstructure:"location"`
	Pay          string    `mapstructure:"pay"`
	Availability string    `mapstructure:"availability"`
	SkillsNeeded []string  `mapstructure:"skillsNeeded"`
	Status       string    `mapstructure:"status"`
	CreatedAt    time.Time `mapstructure:"createdAt"`
}

// Posting is the scoring view of a job.
func (j *Job) Posting() matching.JobPosting {
	return matching.JobPosting{
		Title:        j.Title,
		Description:  j.Description,
		SkillsNeeded: j.SkillsNeeded,
		Location:     j.Location,
		Pay:          j.Pay,
		Availability: j.Availability,
	}
}

func (j *Job) Record() Record {
	return Record{
		"employerId":   j.EmployerID,
		"title":        j.Title,
		"description":  j.Description,
		"location":     j.Location,
		"pay":          j.Pay,
		"availability": j.Availability,
		"skillsNeeded": j.SkillsNeeded,
		"status":       j.Status,
		"createdAt":    j.CreatedAt,
	}
}

type Match struct {
	ID           string    `mapstructure:"id"`
	JobID        string    `mapstructure:"jobId"`
	WorkerID     string    `mapstructure:"workerId"`
	Status       string    `mapstructure:"status"`
	MatchScore   int       `mapstructure:"matchScore"`
	LastActivity time.Time `mapstructure:"lastActivity"`
	CreatedAt    time.Time `mapstructure:"createdAt"`
}

func (m *Match) Record() Record {
	return Record{
		"jobId":        m.JobID,
		"workerId":     m.WorkerID,
		"status":       m.Status,
		"matchScore":   m.MatchScore,
		"lastActivity": m.LastActivity,
		"createdAt":    m.CreatedAt,
	}
}

type Interview struct {
	ID            string    `mapstructure:"id"`
	MatchID       string    `mapstructure:"matchId"`
	ScheduledAt   time.Time `mapstructure:"scheduledAt"`
	Duration      int       `mapstructure:"duration"`
	InterviewType string    `mapstructure:"interviewType"`
	RoomToken     string    `mapstructure:"roomToken"`
	Status        string    `mapstructure:"status"`
	Notes         string    `mapstructure:"notes"`
	Reminded      bool      `mapstructure:"reminded"`
	// Confirmed is set once the booking message and notifications are written.
	Confirmed          bool      `mapstructure:"confirmed"`
	CancelledBy        string    `mapstructure:"cancelledBy"`
	CancellationReason string    `mapstructure:"cancellationReason"`
	CancelledAt        time.Time `mapstructure:"cancelledAt"`
	CompletedAt        time.Time `mapstructure:"completedAt"`
	CreatedAt          time.Time `mapstructure:"createdAt"`
}

func (i *Interview) Record() Record {
	rec := Record{
		"matchId":       i.MatchID,
		"scheduledAt":   i.ScheduledAt,
		"duration":      i.Duration,
		"interviewType": i.InterviewType,
		"roomToken":     i.RoomToken,
		"status":        i.Status,
		"notes":         i.Notes,
		"reminded":      i.Reminded,
		"confirmed":     i.Confirmed,
		"createdAt":     i.CreatedAt,
	}
	if i.CancelledBy != "" {
		rec["cancelledBy"] = i.CancelledBy
		rec["cancellationReason"] = i.CancellationReason
	}
	if !i.CancelledAt.IsZero() {
		rec["cancelledAt"] = i.CancelledAt
	}
	if !i.CompletedAt.IsZero() {
		rec["completedAt"] = i.CompletedAt
	}
	return rec
}

type Message struct {
	ID          string    `mapstructure:"id"`
	MatchID     string    `mapstructure:"matchId"`
	InterviewID string    `mapstructure:"interviewId"`
	SenderID    string    `mapstructure:"senderId"`
	Message     string    `mapstructure:"message"`
	MessageType string    `mapstructure:"messageType"`
	Timestamp   time.Time `mapstructure:"timestamp"`
}

func (m *Message) Record() Record {
	rec := Record{
		"matchId":     m.MatchID,
		"senderId":    m.SenderID,
		"message":     m.Message,
		"messageType": m.MessageType,
		"timestamp":   m.Timestamp,
	}
	if m.InterviewID != "" {
		rec["interviewId"] = m.InterviewID
	}
	return rec
}

type Notification struct {
	ID          string    `mapstructure:"id"`
	UserID      string    `mapstructure:"userId"`
	InterviewID string    `mapstructure:"interviewId"`
	Type        string    `mapstructure:"type"`
	Title       string    `mapstructure:"title"`
	Message     string    `mapstructure:"message"`
	Read        bool      `mapstructure:"read"`
	Timestamp   time.Time `mapstructure:"timestamp"`
}

func (n *Notification) Record() Record {
	rec := Record{
		"userId":    n.UserID,
		"type":      n.Type,
		"title":     n.Title,
		"message":   n.Message,
		"read":      n.Read,
		"timestamp": n.Timestamp,
	}
	if n.InterviewID != "" {
		rec["interviewId"] = n.InterviewID
	}
	return rec
}
