package catalog

// Built-in locale phrases. Best-effort, not exhaustive; the pack loader can
// extend the set without touching this file. Phrases are matched as
// case-insensitive substrings of the candidate text.
func builtinPatterns() map[Category][]Pattern {
	return map[Category][]Pattern{
		CategoryHeading: {
			{Locale: "en", Phrase: "AI Overview"},
			{Locale: "en", Phrase: "AI overview"},
			{Locale: "en-search", Phrase: "Search Labs | AI Overview"},
			{Locale: "de", Phrase: "Übersicht mit KI"},
			{Locale: "de", Phrase: "KI-Übersicht"},
			{Locale: "fr", Phrase: "Aperçu IA"},
			{Locale: "fr", Phrase: "Aperçu généré par l'IA"},
			{Locale: "es", Phrase: "Resumen de IA"},
			{Locale: "es", Phrase: "Resumen creado con IA"},
			{Locale: "it", Phrase: "Panoramica IA"},
			{Locale: "it", Phrase: "Panoramica creata dall'IA"},
			{Locale: "pt", Phrase: "Visão geral criada por IA"},
			{Locale: "pt", Phrase: "Visão geral com IA"},
			{Locale: "nl", Phrase: "AI-overzicht"},
			{Locale: "sv", Phrase: "AI-översikt"},
			{Locale: "da", Phrase: "AI-oversigt"},
			{Locale: "nb", Phrase: "AI-oversikt"},
			{Locale: "fi", Phrase: "Tekoälyn yhteenveto"},
			{Locale: "pl", Phrase: "Przegląd od AI"},
			{Locale: "cs", Phrase: "Přehled od AI"},
			{Locale: "tr", Phrase: "Yapay Zeka Özeti"},
			{Locale: "ru", Phrase: "Обзор от ИИ"},
			{Locale: "uk", Phrase: "Огляд від ШІ"},
			{Locale: "ja", Phrase: "AI による概要"},
			{Locale: "ja", Phrase: "AIによる概要"},
			{Locale: "ko", Phrase: "AI 개요"},
			{Locale: "zh-Hans", Phrase: "AI 摘要"},
			{Locale: "zh-Hant", Phrase: "AI 摘要"},
			{Locale: "hi", Phrase: "AI की झलक"},
			{Locale: "ar", Phrase: "نظرة عامة من الذكاء الاصطناعي"},
			{Locale: "he", Phrase: "סקירה מה-AI"},
			{Locale: "th", Phrase: "ภาพรวมจาก AI"},
			{Locale: "vi", Phrase: "Tổng quan về AI"},
			{Locale: "id", Phrase: "Ringkasan AI"},
		},
		CategoryPeopleAlsoAsk: {
			{Locale: "en", Phrase: "People also ask"},
			{Locale: "en-GB", Phrase: "People also search for"},
			{Locale: "de", Phrase: "Weitere Fragen"},
			{Locale: "de", Phrase: "Ähnliche Fragen"},
			{Locale: "fr", Phrase: "Autres questions posées"},
			{Locale: "es", Phrase: "Más preguntas"},
			{Locale: "es", Phrase: "Otras preguntas de los usuarios"},
			{Locale: "it", Phrase: "Le persone hanno chiesto anche"},
			{Locale: "pt", Phrase: "As pessoas também perguntam"},
			{Locale: "nl", Phrase: "Mensen vragen ook"},
			{Locale: "sv", Phrase: "Andra har också frågat"},
			{Locale: "pl", Phrase: "Podobne pytania"},
			{Locale: "tr", Phrase: "Diğer soru sorulanlar"},
			{Locale: "ru", Phrase: "Похожие вопросы"},
			{Locale: "ja", Phrase: "他の人はこちらも質問"},
			{Locale: "ko", Phrase: "관련 질문"},
			{Locale: "zh-Hans", Phrase: "其他用户还问了"},
			{Locale: "hi", Phrase: "लोगों ने यह भी पूछा"},
			{Locale: "ar", Phrase: "يسأل الأشخاص أيضًا"},
			{Locale: "id", Phrase: "Orang lain juga bertanya"},
		},
		CategoryTabLabel: {
			{Locale: "en", Phrase: "AI Mode"},
			{Locale: "de", Phrase: "KI-Modus"},
			{Locale: "fr", Phrase: "Mode IA"},
			{Locale: "es", Phrase: "Modo IA"},
			{Locale: "it", Phrase: "Modalità IA"},
			{Locale: "pt", Phrase: "Modo IA"},
			{Locale: "nl", Phrase: "AI-modus"},
			{Locale: "pl", Phrase: "Tryb AI"},
			{Locale: "tr", Phrase: "Yapay Zeka Modu"},
			{Locale: "ru", Phrase: "Режим ИИ"},
			{Locale: "ja", Phrase: "AI モード"},
			{Locale: "ja", Phrase: "AIモード"},
			{Locale: "ko", Phrase: "AI 모드"},
			{Locale: "zh-Hans", Phrase: "AI 模式"},
			{Locale: "hi", Phrase: "AI मोड"},
		},
	}
}
