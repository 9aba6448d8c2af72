package reference

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		ref  string
		want Kind
	}{
		{"DEVELOP-123", Feature},
		{"A1-7", Feature},
		{"ADT-123-1", Requirement},
		{"ABC-N-213", Page},
		{"ABC-I-213", Idea},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := Classify(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyRejects(t *testing.T) {
	for _, ref := range []string{
		"",
		"develop-123",
		"DEVELOP",
		"DEVELOP-",
		"1ABC-12",
		"ABC-X-12",
		"ABC-N-",
		"ABC-12-3-4",
		" DEVELOP-123",
		"DEVELOP-123\n",
	} {
		t.Run(ref, func(t *testing.T) {
			_, err := Classify(ref)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFormat))
			assert.Contains(t, err.Error(), "Expected DEVELOP-123 or ADT-123-1 or ABC-N-213 or ABC-I-213")
		})
	}
}

func TestShapesAreDisjoint(t *testing.T) {
	refs := []string{"DEVELOP-123", "ADT-123-1", "ABC-N-213", "ABC-I-213", "N-N-1", "I-I-2", "N-1-2"}
	for _, ref := range refs {
		matches := 0
		for _, fn := range []func(string) bool{IsFeature, IsRequirement, IsPage, IsIdea} {
			if fn(ref) {
				matches++
			}
		}
		assert.LessOrEqual(t, matches, 1, "reference %q matched more than one shape", ref)
	}
}

func TestClassifyAs(t *testing.T) {
	k, err := ClassifyAs("ADT-123-1", Feature, Requirement)
	require.NoError(t, err)
	assert.Equal(t, Requirement, k)

	_, err = ClassifyAs("ABC-N-213", Feature, Requirement)
	require.Error(t, err)
	assert.Equal(t, "Invalid reference number format. Expected DEVELOP-123 or ADT-123-1", err.Error())

	_, err = ClassifyAs("nope", Feature)
	assert.EqualError(t, err, "Invalid reference number format. Expected DEVELOP-123")
}

func TestExpectedFormat(t *testing.T) {
	assert.Equal(t, "ABC-N-213", ExpectedFormat(Page))
	assert.Equal(t, "", ExpectedFormat(User))
}
