package profileValidator

import (
	"encoding/json"
	"strings"
	"time"

	"portal/models"
	"portal/utils"
	"portal/validators"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

const (
	UpdateKey     = "validatedProfile"
	TranscriptKey = "validatedTranscript"
)

// SkillList accepts either a JSON array or a comma separated string.
type SkillList []string

func (s *SkillList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = cleanSkills(list)
		return nil
	}
	var csv string
	if err := json.Unmarshal(data, &csv); err != nil {
		return err
	}
	*s = cleanSkills(strings.Split(csv, ","))
	return nil
}

func cleanSkills(raw []string) SkillList {
	skills := lo.Map(raw, func(skill string, _ int) string { return strings.TrimSpace(skill) })
	return lo.Uniq(lo.Compact(skills))
}

// UpdateRequest holds the self-editable profile fields. Omitted fields keep
// their stored values.
type UpdateRequest struct {
	FirstName   string            `json:"firstName" validate:"omitempty,max=50"`
	LastName    string            `json:"lastName" validate:"omitempty,max=50"`
	Phone       string            `json:"phone" validate:"omitempty,min=10,max=15"`
	DateOfBirth *time.Time        `json:"dateOfBirth"`
	IDNumber    string            `json:"idNumber" validate:"omitempty,len=13,numeric"`
	Gender      string            `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	Race        string            `json:"race" validate:"omitempty,oneof=African Coloured Indian White Other"`
	Address     *models.Address   `json:"address"`
	Education   *models.Education `json:"education"`
	Skills      SkillList         `json:"skills" validate:"omitempty,max=50,dive,max=50"`
}

func checkDates(reqData *UpdateRequest, errors map[string]string) {
	if reqData.DateOfBirth != nil && reqData.DateOfBirth.After(time.Now()) {
		errors["dateOfBirth"] = "Date of birth cannot be in the future!"
	}
	if e := reqData.Education; e != nil && (e.AverageMarks < 0 || e.AverageMarks > 100) {
		errors["education.averageMarks"] = "Must be between 0 and 100!"
	}
}

func Update() fiber.Handler {
	return validators.Body(UpdateKey, checkDates)
}

func Photo() fiber.Handler {
	return validators.File(utils.ImageRule.For("profilePhoto"))
}

func Resume() fiber.Handler {
	return validators.File(utils.DocumentRule.For("resume"))
}

func Transcript() fiber.Handler {
	return validators.File(utils.DocumentRule.For("transcript"))
}

func Document() fiber.Handler {
	return validators.File(utils.AttachmentRule.For("document"))
}
