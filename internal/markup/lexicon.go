package markup

// Trigger phrases that mark a sentence as emotionally heavy enough to slow
// down. Grouped for maintenance; matching is a plain substring scan over the
// flattened list.
var (
	physicalTriggers = []string{
		"눈물이", "눈물을", "가슴이", "심장이", "손이 떨", "목이 메", "숨이 멎",
	}

	emotionTriggers = []string{
		"슬펐", "슬픔", "기뻤", "행복했", "무서웠", "두려웠",
		"외로웠", "그리웠", "그리움", "서러웠", "먹먹",
	}

	intensifierTriggers = []string{
		"너무나", "그토록", "정말로", "사무치",
	}

	lossTriggers = []string{
		"마지막", "떠났", "떠나보", "이별", "돌아가셨", "세상을 떠", "영영", "다시는",
	}
)

// defaultLexicon flattens the trigger groups in a stable order.
func defaultLexicon() []string {
	var lex []string
	lex = append(lex, physicalTriggers...)
	lex = append(lex, emotionTriggers...)
	lex = append(lex, intensifierTriggers...)
	lex = append(lex, lossTriggers...)
	return lex
}
