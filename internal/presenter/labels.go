package presenter

import "killtest/internal/model"

type localized map[model.Language]string

func (l localized) in(lang model.Language) string {
	return l[lang.OrDefault()]
}

// VerdictCopy is the headline block for one verdict
type VerdictCopy struct {
	Title       string `json:"title"`
	Emoji       string `json:"emoji"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var verdictLabels = map[model.Verdict]localized{
	model.VerdictKill:  {model.LangEnglish: "Stop here.", model.LangSpanish: "Detente aqui."},
	model.VerdictFlip:  {model.LangEnglish: "Consider a pivot.", model.LangSpanish: "Considera un pivote."},
	model.VerdictBuild: {model.LangEnglish: "You should build this!", model.LangSpanish: "Deberias construir esto!"},
	model.VerdictBet:   {model.LangEnglish: "A calculated risk.", model.LangSpanish: "Un riesgo calculado."},
}

var verdictEmoji = map[model.Verdict]string{
	model.VerdictKill:  "❌",
	model.VerdictFlip:  "🔁",
	model.VerdictBuild: "🧱",
	model.VerdictBet:   "🎲",
}

var verdictDescriptions = map[model.Verdict]localized{
	model.VerdictKill: {
		model.LangEnglish: "This idea has too many structural weaknesses. The problems identified cannot be fixed with better execution—they require a completely different approach.",
		model.LangSpanish: "Esta idea tiene demasiadas debilidades estructurales. Los problemas identificados no pueden arreglarse con mejor ejecucion—requieren un enfoque completamente diferente.",
	},
	model.VerdictFlip: {
		model.LangEnglish: "This idea has potential, but a significant pivot is required to survive. Focus on addressing the major risk areas before investing more time.",
		model.LangSpanish: "Esta idea tiene potencial, pero se requiere un pivote significativo para sobrevivir. Enfocate en abordar las areas de riesgo principales antes de invertir mas tiempo.",
	},
	model.VerdictBuild: {
		model.LangEnglish: "This idea is defensible with discipline. Execute carefully, prioritize building moats, and avoid the temptation to over-expand.",
		model.LangSpanish: "Esta idea es defendible con disciplina. Ejecuta cuidadosamente, prioriza construir fosos, y evita la tentacion de sobre-expandirte.",
	},
	model.VerdictBet: {
		model.LangEnglish: "This is a strong opportunity with favorable asymmetric upside. The downside is significant, but the potential reward justifies a calculated gamble.",
		model.LangSpanish: "Esta es una oportunidad fuerte con potencial asimetrico favorable. La desventaja es significativa, pero la recompensa potencial justifica una apuesta calculada.",
	},
}

var signalLabels = map[model.SignalID]localized{
	model.SignalCopycatRisk:    {model.LangEnglish: "Copycat Risk", model.LangSpanish: "Riesgo de Copia"},
	model.SignalPlatformRisk:   {model.LangEnglish: "Platform Risk", model.LangSpanish: "Riesgo de Plataforma"},
	model.SignalLockInStrength: {model.LangEnglish: "Lock-in Strength", model.LangSpanish: "Fuerza de Lock-in"},
	model.SignalPricingPower:   {model.LangEnglish: "Pricing Power", model.LangSpanish: "Poder de Precios"},
}

var signalExplanations = map[model.SignalID]localized{
	model.SignalCopycatRisk: {
		model.LangEnglish: "How easily competitors can replicate your core offering. Lower is better - a score of 4/10 means relatively low risk of being copied quickly.",
		model.LangSpanish: "Que tan facil pueden los competidores replicar tu oferta principal. Menor es mejor - 4/10 significa riesgo relativamente bajo de ser copiado rapidamente.",
	},
	model.SignalPlatformRisk: {
		model.LangEnglish: "Your dependency on third-party platforms (APIs, app stores, etc). Lower is better - high scores mean a platform change could break your business.",
		model.LangSpanish: "Tu dependencia de plataformas de terceros (APIs, tiendas de apps, etc). Menor es mejor - puntuaciones altas significan que un cambio de plataforma podria romper tu negocio.",
	},
	model.SignalLockInStrength: {
		model.LangEnglish: "How hard it is for customers to switch away from your product. Higher is better - strong lock-in means customers stay even when competitors appear.",
		model.LangSpanish: "Que tan dificil es para los clientes cambiar de tu producto. Mayor es mejor - fuerte lock-in significa que los clientes se quedan incluso cuando aparecen competidores.",
	},
	model.SignalPricingPower: {
		model.LangEnglish: "Your ability to charge premium prices and resist price pressure. Higher is better - strong pricing power means sustainable margins.",
		model.LangSpanish: "Tu capacidad de cobrar precios premium y resistir presion de precios. Mayor es mejor - fuerte poder de precios significa margenes sostenibles.",
	},
}

var weakSignalReasons = map[model.SignalID]localized{
	model.SignalCopycatRisk: {
		model.LangEnglish: "Marked weak because competitors could replicate your core value proposition quickly, reducing your competitive advantage.",
		model.LangSpanish: "Marcado debil porque los competidores podrian replicar tu propuesta de valor rapidamente, reduciendo tu ventaja competitiva.",
	},
	model.SignalPlatformRisk: {
		model.LangEnglish: "Marked weak because heavy reliance on external platforms creates existential risk if those platforms change terms or access.",
		model.LangSpanish: "Marcado debil porque la fuerte dependencia de plataformas externas crea riesgo existencial si esas plataformas cambian terminos o acceso.",
	},
	model.SignalLockInStrength: {
		model.LangEnglish: "Marked weak because customers can easily switch to alternatives, making retention difficult when competitors emerge.",
		model.LangSpanish: "Marcado debil porque los clientes pueden cambiar facilmente a alternativas, dificultando la retencion cuando aparecen competidores.",
	},
	model.SignalPricingPower: {
		model.LangEnglish: "Marked weak because you may struggle to maintain margins under competitive pressure or have to compete primarily on price.",
		model.LangSpanish: "Marcado debil porque puedes tener dificultades para mantener margenes bajo presion competitiva o tener que competir principalmente en precio.",
	},
}

var pivotLabels = map[model.PivotType]localized{
	model.PivotLockIn:   {model.LangEnglish: "Strengthen Lock-in", model.LangSpanish: "Fortalecer Lock-in"},
	model.PivotNiche:    {model.LangEnglish: "Focus Niche", model.LangSpanish: "Enfocarse en Nicho"},
	model.PivotValue:    {model.LangEnglish: "Restructure Value", model.LangSpanish: "Reestructurar Valor"},
	model.PivotPlatform: {model.LangEnglish: "Reduce Platform Risk", model.LangSpanish: "Reducir Riesgo de Plataforma"},
}

var (
	textResultsTitle = localized{model.LangEnglish: "Your Verdict", model.LangSpanish: "Tu Veredicto"}
	textIdea         = localized{model.LangEnglish: "Idea", model.LangSpanish: "Idea"}
	textScoresTitle  = localized{model.LangEnglish: "Risk Scores", model.LangSpanish: "Puntuaciones de Riesgo"}
	textBiggestRisk  = localized{model.LangEnglish: "Biggest Unresolved Risk", model.LangSpanish: "Mayor Riesgo No Resuelto"}

	riskLow      = localized{model.LangEnglish: "Low Risk", model.LangSpanish: "Bajo Riesgo"}
	riskModerate = localized{model.LangEnglish: "Moderate", model.LangSpanish: "Moderado"}
	riskHigh     = localized{model.LangEnglish: "High Risk", model.LangSpanish: "Alto Riesgo"}
	strengthHigh = localized{model.LangEnglish: "Strong", model.LangSpanish: "Fuerte"}
	strengthWeak = localized{model.LangEnglish: "Weak", model.LangSpanish: "Debil"}
)

// Footer closes the plain-text summary
const Footer = "Generated by AI Idea Validator"
