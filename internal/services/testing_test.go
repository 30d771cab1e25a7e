package services

import (
	"context"
	"sync"
	"testing"

	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.PropertyImage{},
		&models.VoiceSetting{},
		&models.EmailTemplate{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		FullName:     "Test User",
		AuthProvider: "email",
		IsActive:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

// fakeStorage records uploads in memory.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failPut bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Upload(_ context.Context, path, _ string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPut {
		return "", ErrUpstream
	}
	f.objects[path] = data
	return "https://cdn.test/" + path, nil
}

func (f *fakeStorage) Delete(_ context.Context, path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, path)
	f.deleted = append(f.deleted, path)
	return true
}

type fakeVision struct {
	desc ImageDescription
}

func (f *fakeVision) DescribeImage(_ context.Context, _ string) ImageDescription {
	if f.desc.Title == "" && f.desc.Description == "" {
		return ImageDescription{Title: "Property Listing", Description: "No description available."}
	}
	return f.desc
}

type fakeTranscriber struct {
	text string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ string, _ []byte) string {
	return f.text
}

type fakeParser struct {
	reply dto.CommandReply
}

func (f *fakeParser) ParseCommand(_ context.Context, _ string) dto.CommandReply {
	if f.reply.Intent == "" {
		return dto.CommandReply{
			Intent:     "unknown",
			Parameters: map[string]interface{}{},
			Response:   "I'm sorry, I couldn't process that command.",
		}
	}
	return f.reply
}
