package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureIgnoresSkillOrderAndCase(t *testing.T) {
	a := Requirement{Title: "Backend Engineer", Skills: []string{"Python", "sql"}, ExperienceRequired: 3, Level: "Mid"}
	b := Requirement{Title: "backend engineer", Skills: []string{"SQL", "python"}, ExperienceRequired: 3, Level: "mid"}

	assert.Equal(t, a.Signature(), b.Signature())
}

func TestSignatureDistinguishesExperience(t *testing.T) {
	a := Requirement{Title: "Backend Engineer", Skills: []string{"Python"}, ExperienceRequired: 3}
	b := Requirement{Title: "Backend Engineer", Skills: []string{"Python"}, ExperienceRequired: 5}

	assert.NotEqual(t, a.Signature(), b.Signature())
}

func TestNormalizeCEFR(t *testing.T) {
	assert.Equal(t, CEFRB2, NormalizeCEFR("b2"))
	assert.Equal(t, CEFRC1, NormalizeCEFR(" C1 "))
	assert.Equal(t, CEFRUnknown, NormalizeCEFR("native speaker"))
	assert.Equal(t, CEFRUnknown, NormalizeCEFR(""))
}
