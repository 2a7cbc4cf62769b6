package model

import "github.com/secmon-lab/riskform/pkg/domain/types"

// Labels holds the wording used in generated reports and exports
type Labels struct {
	Title          string
	ValidatedBy    string
	Question       string
	Response       string
	Weight         string
	Assessment     string
	Validator      string
	RiskPercentage string
	Yes            string
	No             string
	FileSuffix     string
	Narratives     map[types.SeverityBand]string
}

var englishLabels = Labels{
	Title:          "Risk Analysis",
	ValidatedBy:    "Validated by",
	Question:       "Question",
	Response:       "Response",
	Weight:         "Weight",
	Assessment:     "Assessment",
	Validator:      "Validator",
	RiskPercentage: "Risk Percentage",
	Yes:            "Yes",
	No:             "No",
	FileSuffix:     "_analysis",
	Narratives: map[types.SeverityBand]string{
		types.SeverityLow:      "Low risk: the analysis indicates that the risk is within an acceptable level. No urgent action is required.",
		types.SeverityModerate: "Moderate risk: the risk is at an intermediate level. Monitoring and preventive actions are recommended.",
		types.SeverityHigh:     "High risk: the risk is at an elevated level. Corrective actions and intensive follow-up are required.",
		types.SeverityCritical: "Very high risk: the risk is critical and requires immediate and intensive mitigation measures.",
	},
}

var portugueseLabels = Labels{
	Title:          "Análise de Risco",
	ValidatedBy:    "Validado por",
	Question:       "Pergunta",
	Response:       "Resposta",
	Weight:         "Peso",
	Assessment:     "Análise",
	Validator:      "Validador",
	RiskPercentage: "Percentual de Risco",
	Yes:            "Sim",
	No:             "Não",
	FileSuffix:     "_analise",
	Narratives: map[types.SeverityBand]string{
		types.SeverityLow:      "Risco baixo: A análise indica que o risco está dentro de um nível aceitável. Não são necessárias ações urgentes.",
		types.SeverityModerate: "Risco moderado: O risco está em um nível intermediário. Monitoramento e ações preventivas são recomendadas.",
		types.SeverityHigh:     "Risco alto: O risco está em um nível elevado. Ações corretivas e acompanhamento intensivo são necessários.",
		types.SeverityCritical: "Risco muito alto: O risco está crítico e requer medidas imediatas e intensivas para mitigação.",
	},
}

// LabelsFor returns the labels of lang. Unknown languages fall back to English.
func LabelsFor(lang types.Language) Labels {
	if lang.Normalize() == types.LanguagePortuguese {
		return portugueseLabels
	}
	return englishLabels
}

// Narrative returns the explanation text of band
func (l Labels) Narrative(band types.SeverityBand) string {
	return l.Narratives[band]
}

// ResponseText returns the displayed word of r
func (l Labels) ResponseText(r types.Response) string {
	switch r {
	case types.ResponseYes:
		return l.Yes
	case types.ResponseNo:
		return l.No
	default:
		return r.String()
	}
}
