package guard

// builtinPatterns holds the built-in per-language attack pattern tables.
// Expressions are compiled case-insensitively at guard construction.
var builtinPatterns = map[string]map[Category][]string{
	"en": {
		CategoryRoleConfusion: {
			`you are now\s+(?:a|an)\s+\w+`,
			`forget\s+(?:previous|all|your)\s+(?:instructions|rules|context)`,
			`ignore\s+(?:previous|all|your)\s+(?:instructions|rules|context)`,
			`disregard\s+(?:previous|all|your)\s+(?:instructions|rules|context)`,
			`your\s+(?:new|actual)\s+(?:role|purpose|task)\s+is`,
		},
		CategoryCommandOverride: {
			`system:\s*`,
			`admin:\s*`,
			`override:\s*`,
			`sudo\s+`,
			`execute\s+as\s+(?:admin|root|system)`,
		},
		CategoryContextManipulation: {
			`the\s+(?:above|previous)\s+(?:is|was)\s+(?:wrong|incorrect|false)`,
			`actually,?\s*(?:you|your)\s+(?:role|purpose)\s+is`,
			`in\s+reality,?\s+you\s+(?:are|should)`,
		},
		CategoryInstructionBypass: {
			`bypass\s+(?:security|restrictions|rules)`,
			`skip\s+(?:validation|checks|security)`,
			`disable\s+(?:security|protection|guard)`,
		},
		CategoryDataExfiltration: {
			`show\s+(?:me\s+)?(?:all|your)\s+(?:data|information|secrets)`,
			`reveal\s+(?:your\s+)?(?:system|internal|hidden)`,
			`print\s+(?:your\s+)?(?:configuration|settings|secrets)`,
		},
	},
	"ko": {
		CategoryRoleConfusion: {
			`너는\s+이제\s+\w+(?:이다|야)`,
			`(?:이전|모든)\s+(?:명령|지시|규칙)(?:을|를)\s+(?:잊어|무시)`,
			`당신의\s+(?:새로운|실제)\s+(?:역할|목적)은`,
		},
		CategoryCommandOverride: {
			`시스템:\s*`,
			`관리자:\s*`,
			`관리자\s+(?:권한|모드)로\s+실행`,
		},
	},
}
