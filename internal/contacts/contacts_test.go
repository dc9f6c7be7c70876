package contacts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_Deterministic(t *testing.T) {
	text := "Jane  Smith\njane@example.com  +1 (555) 123-4567\nhttps://github.com/jane https://jane.dev https://linkedin.com/in/jane"
	extra := []string{"https://twitter.com/jane", "https://leetcode.com/jane"}

	first := Extract(text, extra)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Extract(text, extra))
	}
}

func TestExtract_NoURLs(t *testing.T) {
	c := Extract("Jane Smith, backend engineer. Reach me at jane@example.com", nil)

	assert.Equal(t, "jane@example.com", c.Email)
	assert.Empty(t, c.LinkedIn)
	assert.Empty(t, c.GitHub)
	assert.Empty(t, c.LeetCode)
	assert.Empty(t, c.Twitter)
	assert.Empty(t, c.Website)
}

func TestExtract_LinkedInAndGenericURL(t *testing.T) {
	c := Extract("Profile https://www.linkedin.com/in/jane-smith and blog https://jane.dev/posts", nil)

	assert.Equal(t, "https://www.linkedin.com/in/jane-smith", c.LinkedIn)
	assert.Equal(t, "https://jane.dev/posts", c.Website)
	assert.Empty(t, c.GitHub)
}

func TestExtract_Fields(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		extra []string
		want  Contacts
	}{
		{
			name: "phone stripped to digits and plus",
			text: "Call +1 (555) 123-4567 anytime",
			want: Contacts{Phone: "+15551234567"},
		},
		{
			name: "email is case-insensitive",
			text: "JANE.SMITH@EXAMPLE.ORG",
			want: Contacts{Email: "JANE.SMITH@EXAMPLE.ORG"},
		},
		{
			name: "trailing paren and period trimmed",
			text: "(see https://github.com/jane/repo).",
			want: Contacts{GitHub: "https://github.com/jane/repo"},
		},
		{
			name:  "lone trailing paren trimmed",
			extra: []string{"https://linkedin.com/in/jane)", "https://leetcode.com/u/jane.."},
			want:  Contacts{LinkedIn: "https://linkedin.com/in/jane", LeetCode: "https://leetcode.com/u/jane"},
		},
		{
			name:  "text URLs win over extra URLs",
			text:  "https://github.com/from-text",
			extra: []string{"https://github.com/from-annotation", "https://leetcode.com/u/jane"},
			want:  Contacts{GitHub: "https://github.com/from-text", LeetCode: "https://leetcode.com/u/jane"},
		},
		{
			name:  "linkedin requires the /in/ path",
			extra: []string{"https://linkedin.com/company/acme"},
			want:  Contacts{},
		},
		{
			name:  "twitter and website",
			extra: []string{"https://twitter.com/jane", "https://portfolio.example"},
			want:  Contacts{Twitter: "https://twitter.com/jane", Website: "https://portfolio.example"},
		},
		{
			name:  "first generic URL wins the website slot",
			extra: []string{"https://a.example", "https://b.example"},
			want:  Contacts{Website: "https://a.example"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.text, tt.extra))
		})
	}
}

func TestContacts_FieldsOrderAndIsEmpty(t *testing.T) {
	assert.True(t, Contacts{}.IsEmpty())

	c := Contacts{Twitter: "t", Email: "e", GitHub: "g"}
	assert.False(t, c.IsEmpty())
	assert.Equal(t, []Field{{"Email", "e"}, {"GitHub", "g"}, {"Twitter", "t"}}, c.Fields())
}

func TestFallbackText(t *testing.T) {
	got := FallbackText(Contacts{Phone: "+4912345678", LinkedIn: "https://linkedin.com/in/jane", Twitter: "https://twitter.com/x"})

	assert.Equal(t, "Phone: +4912345678\nLinkedIn: https://linkedin.com/in/jane\n\n"+ExtractionFailedNote, got)
	assert.NotContains(t, got, "twitter")
}

func TestIsContactOnly(t *testing.T) {
	assert.True(t, IsContactOnly(FallbackText(Contacts{LinkedIn: "https://linkedin.com/in/jane"})))
	assert.False(t, IsContactOnly("Phone: 123\nExperience: Acme"))
	assert.False(t, IsContactOnly("Jane Smith, engineer"))
	assert.False(t, IsContactOnly("LinkedIn: x "+strings.Repeat("a", 200)))
	assert.False(t, IsContactOnly("GitHub: x\nProjects: y"))
}

func TestPreservationNote(t *testing.T) {
	assert.Empty(t, PreservationNote(Contacts{}))

	note := PreservationNote(Contacts{Email: "jane@example.com", Website: "https://jane.dev"})
	assert.True(t, strings.HasPrefix(note, "\n\nIMPORTANT: Preserve these original contact links/values EXACTLY"))
	assert.True(t, strings.HasSuffix(note, "Original Contacts -> Email=jane@example.com | Website=https://jane.dev"))
}
