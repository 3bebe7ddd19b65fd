package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"portal/apperrors"
	"portal/models"
	"portal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	user := &models.User{FirstName: "Thandi", LastName: "Mokoena", Email: "thandi@example.com"}
	assert.Equal(t, 17, Completion(user))
	assert.Len(t, MissingFields(user), 12)

	dob := time.Date(2003, 5, 1, 0, 0, 0, 0, time.UTC)
	user.Phone = "0821234567"
	user.DateOfBirth = &dob
	user.IDNumber = "0305015800087"
	user.Gender = "Female"
	user.Race = "African"
	user.Address = models.Address{Street: "1 Main Rd", City: "Durban", Province: "KwaZulu-Natal"}
	user.Education = models.Education{Institution: "UKZN", Qualification: "BSc", YearOfStudy: 2}
	user.Resume = models.StoredFile{URL: "https://storage.googleapis.com/b/resume.pdf", StorageKey: "resume.pdf"}

	assert.Equal(t, 100, Completion(user))
	assert.Empty(t, MissingFields(user))
	stats := Stats(user)
	assert.True(t, stats.HasResume)
	assert.True(t, stats.HasPersonalInfo)
	assert.False(t, stats.HasProfilePhoto)
}

func TestProfileUpdate_MergesNonEmptyFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")

	profile, err := f.svc.Profile.Update(ctx, user.ID, ProfileUpdate{
		Phone:     "0821234567",
		Education: &models.Education{Institution: "UKZN"},
		Skills:    []string{"Go", "SQL"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Thandi", profile.FirstName)
	assert.Equal(t, "0821234567", profile.Phone)
	assert.Equal(t, "UKZN", profile.Education.Institution)
	assert.Equal(t, []string{"Go", "SQL"}, []string(profile.Skills))
	assert.Equal(t, 25, profile.ProfileCompletion)
}

func TestProfilePhoto_ReplaceAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")
	photo := &utils.UploadedFile{Filename: "me.png", ContentType: "image/png", Data: []byte("png")}

	first, _, err := f.svc.Profile.UploadPhoto(ctx, user.ID, photo)
	require.NoError(t, err)
	second, _, err := f.svc.Profile.UploadPhoto(ctx, user.ID, photo)
	require.NoError(t, err)

	assert.NotEqual(t, first.StorageKey, second.StorageKey)
	assert.Contains(t, f.store.deleted, first.StorageKey)
	assert.Contains(t, f.store.objects, second.StorageKey)

	_, err = f.svc.Profile.DeletePhoto(ctx, user.ID)
	require.NoError(t, err)
	assert.NotContains(t, f.store.objects, second.StorageKey)

	_, err = f.svc.Profile.DeletePhoto(ctx, user.ID)
	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
}

func TestProfileResume_RaisesCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")

	_, completion, err := f.svc.Profile.UploadResume(ctx, user.ID,
		&utils.UploadedFile{Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, 25, completion)

	completion, err = f.svc.Profile.DeleteResume(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 17, completion)
}

func TestProfileTranscripts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")
	file := &utils.UploadedFile{Filename: "marks.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}

	transcript, err := f.svc.Profile.UploadTranscript(ctx, user.ID, file, "First year")
	require.NoError(t, err)
	_, err = f.svc.Profile.UploadTranscript(ctx, user.ID, file, "Second year")
	require.NoError(t, err)

	files, err := f.svc.Profile.Files(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, files.Transcripts, 2)
	assert.Nil(t, files.Resume)

	require.NoError(t, f.svc.Profile.DeleteTranscript(ctx, user.ID, transcript.ID))
	files, err = f.svc.Profile.Files(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, files.Transcripts, 1)
	assert.Equal(t, "Second year", files.Transcripts[0].Description)

	err = f.svc.Profile.DeleteTranscript(ctx, user.ID, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestUploadDocument_StoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")
	f.store.fail = errors.New("bucket unavailable")

	_, err := f.svc.Profile.UploadDocument(ctx, user.ID,
		&utils.UploadedFile{Filename: "id.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	assert.True(t, apperrors.Is(err, apperrors.KindInternal))
}

func TestUploadDocument_FeedsSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "thandi@example.com")
	opportunity := f.opportunity(t, "Sasol Bursary", time.Now().Add(24*time.Hour))

	document, err := f.svc.Profile.UploadDocument(ctx, user.ID,
		&utils.UploadedFile{Filename: "id.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, int64(4), document.Size)

	application, err := f.svc.Applications.Submit(ctx, user.ID, opportunity.ID, nil, []models.Document{*document})
	require.NoError(t, err)
	require.Len(t, application.Documents, 1)
	assert.Equal(t, document.StorageKey, application.Documents[0].StorageKey)
}
