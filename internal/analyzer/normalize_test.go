package analyzer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"privlens/internal/analyzer"
	"privlens/internal/domain"
)

func TestNormalizeRight(t *testing.T) {
	tests := []struct {
		in   string
		want domain.UserRight
		ok   bool
	}{
		{"access", domain.RightAccess, true},
		{"Delete", domain.RightDeletion, true},
		{"opt-out", domain.RightOptOut, true},
		{"Opt Out", domain.RightOptOut, true},
		{"modify", domain.RightCorrection, true},
		{"consent withdrawal", domain.RightConsentWithdrawal, true},
		{"right to withdraw consent", domain.RightConsentWithdrawal, true},
		{"data portability", domain.RightPortability, true},
		{"complain", "", false},
		{"e", "", false},
		{"out", "", false},
		{"port", domain.RightPortability, true},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := analyzer.NormalizeRight(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyDataType(t *testing.T) {
	tests := []struct {
		in   string
		want domain.DataType
	}{
		{"Email address", domain.DataTypePersonal},
		{"IP address", domain.DataTypeTechnical},
		{"credit card number", domain.DataTypeFinancial},
		{"biometric identifiers", domain.DataTypeSensitive},
		{"browsing history", domain.DataTypeBehavioral},
	}
	for _, tt := range tests {
		got, ok := analyzer.ClassifyDataType(tt.in)
		assert.True(t, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, ok := analyzer.ClassifyDataType("nothing relevant")
	assert.False(t, ok)
}

func TestClassifyDataType_WordBoundaries(t *testing.T) {
	tests := []struct {
		in   string
		want domain.DataType
		ok   bool
	}{
		{"You can manage this page.", "", false},
		{"Send us a message about storage.", "", false},
		{"Use the interface to continue.", "", false},
		{"Our technology team.", "", false},
		{"Please login to continue.", "", false},
		{"server logs", domain.DataTypeTechnical, true},
		{"device identifiers", domain.DataTypeTechnical, true},
		{"users under the age of 13", domain.DataTypePersonal, true},
		{"E-mail addresses", domain.DataTypePersonal, true},
		{"behavioural profiles", domain.DataTypeBehavioral, true},
		{"religious beliefs", domain.DataTypeSensitive, true},
		{"facial geometry", domain.DataTypeSensitive, true},
		{"recent activities", domain.DataTypeBehavioral, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := analyzer.ClassifyDataType(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerm_In(t *testing.T) {
	tests := []struct {
		pattern string
		text    string
		want    bool
	}{
		{"cookie", "We set cookies.", true},
		{"cookie", "cookiejar", false},
		{"third part*", "shared with third-party vendors", true},
		{"third part*", "a third partition", true},
		{"third part*", "third", false},
		{"sell*", "we are selling it", true},
		{"sell*", "a reseller", false},
		{"activity", "activities", true},
		{"age", "storage page", false},
		{"", "anything", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, analyzer.NewTerm(tt.pattern).In(analyzer.Words(tt.text)))
		})
	}
	assert.Equal(t, "third part", analyzer.NewTerm("Third Part*").String())
}

func TestDetectFrameworks(t *testing.T) {
	got := analyzer.DetectFrameworks("California residents have CCPA rights. EU users are covered by the General Data Protection Regulation.")
	assert.Equal(t, []domain.LegalFramework{domain.FrameworkGDPR, domain.FrameworkCCPA}, got)
	assert.Empty(t, analyzer.DetectFrameworks("nothing here"))
}

func TestNormalizeFrameworks(t *testing.T) {
	got := analyzer.NormalizeFrameworks([]string{" HIPAA", "gdpr", "gdpr", "coppa"})
	assert.Equal(t, []domain.LegalFramework{domain.FrameworkGDPR, domain.FrameworkHIPAA}, got)
}

func TestDetectMandatoryPractices(t *testing.T) {
	got := analyzer.DetectMandatoryPractices("You must provide an email to register. Marketing is optional.")
	assert.Equal(t, []string{"You must provide an email to register."}, got)
}

func TestExtractiveSummary(t *testing.T) {
	assert.Equal(t, "One. Two!", analyzer.ExtractiveSummary("# Heading\nOne. Two! Three?"))

	long := strings.Repeat("word ", 120) + "end."
	got := analyzer.ExtractiveSummary(long)
	assert.LessOrEqual(t, len(got), 403)
	assert.True(t, strings.HasSuffix(got, "..."))
}
