package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/aitutorhq/ai-tutor-api/model"
	"github.com/aitutorhq/ai-tutor-api/utils/auth"
)

// Seed populates the database with the default admin account and sample
// content. It is idempotent: existing rows are never overwritten.
func Seed(db *gorm.DB) error {
	if err := seedUsers(db); err != nil {
		return err
	}
	if err := seedCourses(db); err != nil {
		return err
	}
	return seedQuestions(db)
}

func seedUsers(db *gorm.DB) error {
	adminHash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	tutorHash, err := auth.HashPassword("tutor123")
	if err != nil {
		return err
	}

	users := []model.User{
		{
			Username:       "admin",
			PasswordHash:   adminHash,
			Role:           model.RoleAdmin,
			ApprovalStatus: model.StatusApproved,
			FullName:       "Platform Administrator",
		},
		{
			Username:       "sample_tutor",
			PasswordHash:   tutorHash,
			Role:           model.RoleTutor,
			ApprovalStatus: model.StatusApproved,
			FullName:       "Sample Tutor",
			Qualification:  "M.Sc. Physics",
		},
	}

	for i := range users {
		var existing model.User
		err := db.Where("username = ?", users[i].Username).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		if err := db.Create(&users[i]).Error; err != nil {
			return err
		}
		log.Printf("Seeded user %q", users[i].Username)
	}
	return nil
}

func seedCourses(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Course{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	course := model.Course{
		TutorUsername: "sample_tutor",
		Title:         "Introduction to Physics",
		Subject:       "Physics",
		Grade:         "10",
		Description:   "A beginner-friendly course covering motion, forces and energy.",
		Chapters: model.Chapters{
			{
				Title:  "Motion and Kinematics",
				Videos: []string{"https://videos.example.com/physics/motion-1"},
			},
			{
				Title:  "Newton's Laws",
				Videos: []string{"https://videos.example.com/physics/newton-1", "https://videos.example.com/physics/newton-2"},
			},
		},
		Ratings:     model.Ratings{},
		Enrollments: model.Enrollments{},
	}

	if err := db.Create(&course).Error; err != nil {
		return err
	}
	log.Printf("Seeded course %q", course.Title)
	return nil
}

func seedQuestions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Question{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	question := model.Question{
		TutorUsername: "sample_tutor",
		Question:      "State Newton's second law of motion and give one everyday example.",
		Subject:       "Physics",
		Grade:         "10",
		Difficulty:    "medium",
	}

	if err := db.Create(&question).Error; err != nil {
		return err
	}
	log.Println("Seeded sample question")
	return nil
}
