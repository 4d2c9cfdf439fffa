package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/aitutorhq/ai-tutor-api/model"
)

// ChatLogRetention is how long chat history is kept before the weekly trim
const ChatLogRetention = 180 * 24 * time.Hour

// CleanupExpiredTokens purges blacklist entries whose tokens have expired
// anyway and no longer need tracking.
func (m *CronManager) CleanupExpiredTokens() {
	jobName := "cleanup_expired_tokens"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	removed, err := m.blacklist.CleanupExpiredTokens(ctx)
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d expired blacklist entries", removed))
}

// PlatformStats is the nightly aggregate snapshot
type PlatformStats struct {
	TotalUsers          int64 `json:"total_users"`
	TotalStudents       int64 `json:"total_students"`
	TotalTutors         int64 `json:"total_tutors"`
	PendingApplications int64 `json:"pending_applications"`
	TotalCourses        int64 `json:"total_courses"`
	TotalQuestions      int64 `json:"total_questions"`
	TotalChats          int64 `json:"total_chats"`
}

// AggregatePlatformStats counts the main entities and stores the snapshot in
// the job log metadata.
func (m *CronManager) AggregatePlatformStats() {
	jobName := "aggregate_platform_stats"

	var stats PlatformStats
	queries := []error{
		m.db.Model(&model.User{}).Count(&stats.TotalUsers).Error,
		m.db.Model(&model.User{}).Where("role = ?", model.RoleStudent).Count(&stats.TotalStudents).Error,
		m.db.Model(&model.User{}).Where("role = ?", model.RoleTutor).Count(&stats.TotalTutors).Error,
		m.db.Model(&model.TutorApplication{}).Where("status = ?", model.StatusPending).Count(&stats.PendingApplications).Error,
		m.db.Model(&model.Course{}).Count(&stats.TotalCourses).Error,
		m.db.Model(&model.Question{}).Count(&stats.TotalQuestions).Error,
		m.db.Model(&model.ChatLog{}).Count(&stats.TotalChats).Error,
	}
	for _, err := range queries {
		if err != nil {
			m.logJobError(jobName, err)
			return
		}
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Update("metadata", datatypes.JSON(payload))

	m.logJobComplete(jobName, fmt.Sprintf("Snapshot of %d users, %d courses, %d questions",
		stats.TotalUsers, stats.TotalCourses, stats.TotalQuestions))
}

// TrimOldChatLogs deletes chat exchanges older than the retention window
func (m *CronManager) TrimOldChatLogs() {
	jobName := "trim_chat_logs"

	cutoff := time.Now().Add(-ChatLogRetention)
	result := m.db.Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&model.ChatLog{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d chat logs older than %s",
		result.RowsAffected, cutoff.Format("2006-01-02")))
}
