package services

import (
	"context"
	"fmt"
	"time"

	"portal/apperrors"
	"portal/logger"
	"portal/models"
	"portal/repositories"
	"portal/storage"
	"portal/utils"

	"github.com/google/uuid"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

const profileChecks = 12

// Completion scores a profile from 0 to 100 over twelve equally weighted
// checks.
func Completion(user *models.User) int {
	checks := []bool{
		user.FirstName != "" && user.LastName != "",
		user.Email != "",
		user.Phone != "",
		user.DateOfBirth != nil,
		user.IDNumber != "",
		user.Gender != "",
		user.Race != "",
		user.Address.Street != "",
		user.Address.City != "",
		user.Address.Province != "",
		user.Education.Institution != "" && user.Education.Qualification != "" && user.Education.YearOfStudy != 0,
		user.Resume.URL != "",
	}
	return utils.Percent(int64(lo.Count(checks, true)), profileChecks)
}

func MissingFields(user *models.User) []string {
	missing := []string{}
	add := func(absent bool, label string) {
		if absent {
			missing = append(missing, label)
		}
	}
	add(user.Phone == "", "Phone number")
	add(user.DateOfBirth == nil, "Date of birth")
	add(user.IDNumber == "", "ID number")
	add(user.Gender == "", "Gender")
	add(user.Race == "", "Race")
	add(user.Address.Street == "", "Street address")
	add(user.Address.City == "", "City")
	add(user.Address.Province == "", "Province")
	add(user.Education.Institution == "", "Educational institution")
	add(user.Education.Qualification == "", "Qualification")
	add(user.Education.YearOfStudy == 0, "Year of study")
	add(user.Resume.IsEmpty(), "Resume")
	return missing
}

type ProfileStats struct {
	ProfileCompletion int      `json:"profileCompletion"`
	HasProfilePhoto   bool     `json:"hasProfilePhoto"`
	HasResume         bool     `json:"hasResume"`
	HasEducation      bool     `json:"hasEducation"`
	HasPersonalInfo   bool     `json:"hasPersonalInfo"`
	MissingFields     []string `json:"missingFields"`
}

func Stats(user *models.User) ProfileStats {
	return ProfileStats{
		ProfileCompletion: Completion(user),
		HasProfilePhoto:   !user.ProfilePhoto.IsEmpty(),
		HasResume:         !user.Resume.IsEmpty(),
		HasEducation:      user.Education.Institution != "" && user.Education.Qualification != "",
		HasPersonalInfo:   user.Phone != "" && user.DateOfBirth != nil && user.Gender != "",
		MissingFields:     MissingFields(user),
	}
}

// CompleteProfile is a user with its completion score.
type CompleteProfile struct {
	*models.User
	ProfileCompletion int `json:"profileCompletion"`
}

// ProfileUpdate merges into the stored profile. Empty values are ignored.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	Phone       string
	DateOfBirth *time.Time
	IDNumber    string
	Gender      string
	Race        string
	Address     *models.Address
	Education   *models.Education
	Skills      []string
}

type UserFiles struct {
	Resume       *models.StoredFile  `json:"resume"`
	ProfilePhoto *models.StoredFile  `json:"profilePhoto"`
	Transcripts  []models.Transcript `json:"transcripts"`
}

type Profile struct {
	users *repositories.Users
	store storage.ObjectStore
	now   func() time.Time
}

func NewProfile(users *repositories.Users, store storage.ObjectStore) *Profile {
	return &Profile{users: users, store: store, now: time.Now}
}

func (s *Profile) Get(ctx context.Context, userID uuid.UUID) (*CompleteProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ApplicationIDs, err = s.users.ApplicationIDs(ctx, userID); err != nil {
		return nil, err
	}
	return &CompleteProfile{User: user, ProfileCompletion: Completion(user)}, nil
}

func (s *Profile) Stats(ctx context.Context, userID uuid.UUID) (*ProfileStats, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := Stats(user)
	return &stats, nil
}

func (s *Profile) Update(ctx context.Context, userID uuid.UUID, update ProfileUpdate) (*CompleteProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	mergeProfile(user, update)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func mergeProfile(user *models.User, update ProfileUpdate) {
	set := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	set(&user.FirstName, update.FirstName)
	set(&user.LastName, update.LastName)
	set(&user.Phone, update.Phone)
	set(&user.IDNumber, update.IDNumber)
	set(&user.Gender, update.Gender)
	set(&user.Race, update.Race)
	if update.DateOfBirth != nil {
		user.DateOfBirth = update.DateOfBirth
	}
	if a := update.Address; a != nil {
		set(&user.Address.Street, a.Street)
		set(&user.Address.City, a.City)
		set(&user.Address.Province, a.Province)
		set(&user.Address.PostalCode, a.PostalCode)
	}
	if e := update.Education; e != nil {
		set(&user.Education.Institution, e.Institution)
		set(&user.Education.Qualification, e.Qualification)
		set(&user.Education.FieldOfStudy, e.FieldOfStudy)
		if e.YearOfStudy != 0 {
			user.Education.YearOfStudy = e.YearOfStudy
		}
		if e.GraduationYear != 0 {
			user.Education.GraduationYear = e.GraduationYear
		}
		if e.AverageMarks != 0 {
			user.Education.AverageMarks = e.AverageMarks
		}
	}
	if update.Skills != nil {
		user.Skills = update.Skills
	}
}

func (s *Profile) upload(ctx context.Context, folder string, file *utils.UploadedFile) (*storage.StoredObject, error) {
	object, err := s.store.Upload(ctx, folder, file.Filename, file.ContentType, file.Data)
	if err != nil {
		return nil, apperrors.Internal("File upload failed", err)
	}
	return object, nil
}

// discard removes a replaced object. Failures only leave an orphan behind.
func (s *Profile) discard(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		log.WithFields(log.Fields{
			logger.ErrorTypeField: logger.ErrorTypeStorage,
			"storage_key":         key,
		}).Errorf("Error deleting stored file: %v", err)
	}
}

func storedFile(object *storage.StoredObject) models.StoredFile {
	uploadedAt := object.UploadedAt
	return models.StoredFile{
		Filename:   object.Filename,
		StorageKey: object.Key,
		URL:        object.URL,
		UploadedAt: &uploadedAt,
	}
}

func (s *Profile) UploadPhoto(ctx context.Context, userID uuid.UUID, file *utils.UploadedFile) (*models.StoredFile, int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	object, err := s.upload(ctx, fmt.Sprintf("profile-photos/%s", userID), file)
	if err != nil {
		return nil, 0, err
	}

	previous := user.ProfilePhoto.StorageKey
	user.ProfilePhoto = storedFile(object)
	if err := s.users.Save(ctx, user); err != nil {
		s.discard(ctx, object.Key)
		return nil, 0, err
	}
	s.discard(ctx, previous)
	return &user.ProfilePhoto, Completion(user), nil
}

func (s *Profile) DeletePhoto(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.ProfilePhoto.IsEmpty() {
		return 0, apperrors.Validation("No profile photo to delete", nil)
	}
	key := user.ProfilePhoto.StorageKey
	user.ProfilePhoto = models.StoredFile{}
	if err := s.users.Save(ctx, user); err != nil {
		return 0, err
	}
	s.discard(ctx, key)
	return Completion(user), nil
}

func (s *Profile) UploadResume(ctx context.Context, userID uuid.UUID, file *utils.UploadedFile) (*models.StoredFile, int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	object, err := s.upload(ctx, fmt.Sprintf("resumes/%s", userID), file)
	if err != nil {
		return nil, 0, err
	}

	previous := user.Resume.StorageKey
	user.Resume = storedFile(object)
	if err := s.users.Save(ctx, user); err != nil {
		s.discard(ctx, object.Key)
		return nil, 0, err
	}
	s.discard(ctx, previous)
	return &user.Resume, Completion(user), nil
}

func (s *Profile) DeleteResume(ctx context.Context, userID uuid.UUID) (int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.Resume.IsEmpty() {
		return 0, apperrors.Validation("No resume to delete", nil)
	}
	key := user.Resume.StorageKey
	user.Resume = models.StoredFile{}
	if err := s.users.Save(ctx, user); err != nil {
		return 0, err
	}
	s.discard(ctx, key)
	return Completion(user), nil
}

func (s *Profile) UploadTranscript(ctx context.Context, userID uuid.UUID, file *utils.UploadedFile, description string) (*models.Transcript, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	object, err := s.upload(ctx, fmt.Sprintf("transcripts/%s", userID), file)
	if err != nil {
		return nil, err
	}

	transcript := models.Transcript{
		ID:          uuid.New(),
		Filename:    object.Filename,
		StorageKey:  object.Key,
		URL:         object.URL,
		Description: description,
		UploadedAt:  object.UploadedAt,
	}
	user.Transcripts = append(user.Transcripts, transcript)
	if err := s.users.Save(ctx, user); err != nil {
		s.discard(ctx, object.Key)
		return nil, err
	}
	return &transcript, nil
}

func (s *Profile) DeleteTranscript(ctx context.Context, userID, transcriptID uuid.UUID) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	transcript, index, found := lo.FindIndexOf(user.Transcripts, func(t models.Transcript) bool {
		return t.ID == transcriptID
	})
	if !found {
		return apperrors.NotFound("Transcript not found")
	}

	user.Transcripts = append(user.Transcripts[:index:index], user.Transcripts[index+1:]...)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.discard(ctx, transcript.StorageKey)
	return nil
}

func (s *Profile) Files(ctx context.Context, userID uuid.UUID) (*UserFiles, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	files := &UserFiles{Transcripts: user.Transcripts}
	if files.Transcripts == nil {
		files.Transcripts = []models.Transcript{}
	}
	if !user.Resume.IsEmpty() {
		files.Resume = &user.Resume
	}
	if !user.ProfilePhoto.IsEmpty() {
		files.ProfilePhoto = &user.ProfilePhoto
	}
	return files, nil
}

// UploadDocument stores a file for a later application submission and
// returns its descriptor. Documents must be uploaded before submitting.
func (s *Profile) UploadDocument(ctx context.Context, userID uuid.UUID, file *utils.UploadedFile) (*models.Document, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	object, err := s.upload(ctx, fmt.Sprintf("application-documents/%s", userID), file)
	if err != nil {
		return nil, err
	}
	return &models.Document{
		Name:       object.Filename,
		StorageKey: object.Key,
		URL:        object.URL,
		Size:       object.Size,
		Type:       object.ContentType,
		UploadedAt: object.UploadedAt,
	}, nil
}
