package profileValidator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillList_AcceptsArrayOrCSV(t *testing.T) {
	var fromArray UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"skills":["Go"," SQL ","Go",""]}`), &fromArray))
	assert.Equal(t, SkillList{"Go", "SQL"}, fromArray.Skills)

	var fromCSV UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"skills":"Excel, Python,,Excel"}`), &fromCSV))
	assert.Equal(t, SkillList{"Excel", "Python"}, fromCSV.Skills)

	var invalid UpdateRequest
	assert.Error(t, json.Unmarshal([]byte(`{"skills":42}`), &invalid))
}
