package analyzer

import (
	"fmt"

	"privlens/internal/domain"
)

const structurePrompt = `Analyze this privacy policy section and identify its structure:

%s

Return a JSON object only:
{
  "section_type": "definition/rights/obligations/data_collection/data_usage/third_parties/retention/security/cookies/contact/other",
  "main_topics": ["main topics covered"],
  "complexity_level": "simple/moderate/complex",
  "mandatory_practices": ["data practices the user cannot opt out of, empty if none"]
}`

const entitiesPrompt = `Extract key entities from this privacy policy section, focusing on specific and detailed information:

%s

Look for:
- Specific data types: name, email, phone, address, payment info, biometric data, location, device info, browsing history
- User rights: access, deletion, portability, opt-out, correction, consent withdrawal
- Third parties: advertisers, partners, service providers, affiliates
- Company obligations: data protection, security measures, consent, disclosure rules
- Legal basis: legitimate interest, consent, contract, compliance

Return a JSON object only:
{
  "entities": [
    {
      "entity_type": "data_type/user_right/company_obligation/third_party/legal_basis",
      "value": "specific extracted value",
      "context": "surrounding context where found",
      "confidence": 0.95
    }
  ]
}`

const frameworksPrompt = `Identify which privacy regulations this policy section explicitly refers to or is clearly written to satisfy:

%s

Allowed values: gdpr, ccpa, pipeda, hipaa, ferpa.

Return a JSON object only:
{"frameworks": ["gdpr"]}
Return an empty list when none apply.`

const impactPrompt = `Analyze how this privacy policy section affects users with detailed numerical scoring:

%s

Return a JSON object only:
{
  "sensitivity_score": 7.5,
  "privacy_impact_score": 8.0,
  "data_sharing_risk": 6.5,
  "user_control": 3,
  "transparency_score": 4,
  "key_concerns": ["specific, detailed concerns based on actual content"],
  "actionable_rights": ["access", "deletion", "opt_out", "portability", "correction", "consent_withdrawal"]
}

Scoring guidelines:
- sensitivity_score (0-10): how sensitive or concerning this content is to users
- privacy_impact_score (0-10): how much this impacts user privacy
- data_sharing_risk (0-10): risk of data being shared or misused
- user_control (0-5): how much control users have
- transparency_score (0-5): how clearly the practice is explained

Pay attention to biometric or health data, precise location tracking, cross-site tracking,
profiling, extensive third-party sharing, permanent retention and limited user control.`

const summaryPrompt = `Create a user-friendly summary of this privacy policy section in plain English:

%s

The summary should:
- Explain all major points and what they mean for users in practice
- Mention specific data, technologies or parties named in the section
- Use clear, simple language without legal jargon
- Be 2-4 sentences

Return a JSON object only:
{"summary": "..."}`

// BuildPrompt returns the prompt for kind applied to section text.
func BuildPrompt(kind domain.AnalysisKind, text string) string {
	switch kind {
	case domain.KindStructure:
		return fmt.Sprintf(structurePrompt, text)
	case domain.KindEntities:
		return fmt.Sprintf(entitiesPrompt, text)
	case domain.KindFrameworks:
		return fmt.Sprintf(frameworksPrompt, text)
	case domain.KindImpact:
		return fmt.Sprintf(impactPrompt, text)
	case domain.KindSummary:
		return fmt.Sprintf(summaryPrompt, text)
	default:
		return text
	}
}

// maxTokensFor is the response budget per analysis kind.
func maxTokensFor(kind domain.AnalysisKind) int {
	switch kind {
	case domain.KindStructure:
		return 500
	case domain.KindEntities:
		return 800
	case domain.KindImpact:
		return 600
	case domain.KindSummary:
		return 400
	default:
		return 300
	}
}

func temperatureFor(kind domain.AnalysisKind) float64 {
	if kind == domain.KindSummary {
		return 0.2
	}
	return 0.1
}
