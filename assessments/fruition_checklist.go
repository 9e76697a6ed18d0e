package assessments

// fruitionChecklistConfig is the Learner Checklist companion to the
// horticulture assessment. Several items gather context rather than
// being graded; the grader still records the answers.
func fruitionChecklistConfig() *Config {
	return &Config{
		Kind:        "fruition-checklist",
		CourseID:    "fruition-23359",
		Preamble:    "Kia ora! Next is your Learner Checklist. Base your answers on a horticultural workplace.",
		Voice:       "shimmer",
		Temperature: 0.8,
		Questions: []Question{
			{
				ID:           "cl1",
				Text:         "Think about the horticultural workplace. Describe the situation. Tell us what you were doing, where you were, anything different about what you were doing. For example were you inside or outside?",
				SearchQuery:  "horticulture workplace context description",
				SearchModule: "horticulture_hygiene",
				SearchLimit:  0,
				CriteriaNYC:  "N/A - Information gathering.",
				CriteriaC:    "N/A - Information gathering.",
				Guidance:     "Use this as context for the rest of the checklist assessment.",
			},
			{
				ID:           "cl2",
				Text:         "List the PPE and clothing you wore.",
				SearchQuery:  "horticulture standard PPE clothing",
				SearchModule: "horticulture_hygiene",
				SearchLimit:  1,
				CriteriaNYC:  "List is incomplete or inappropriate for the described situation.",
				CriteriaC:    "Lists appropriate PPE and clothing for the described situation.",
				Guidance:     "Check if the listed PPE and clothing are appropriate for the described situation and task (e.g., gloves, apron, hairnet, safety glasses, footwear).",
			},
			{
				ID:           "cl3",
				Text:         "Explain the procedures you used to prevent contamination of produce.",
				SearchQuery:  "horticulture contamination prevention procedures",
				SearchModule: "horticulture_hygiene",
				SearchLimit:  2,
				CriteriaNYC:  "Explanation is vague or lists incorrect procedures.",
				CriteriaC:    "Explains specific, relevant procedures used (e.g., sanitizing tools, following hygiene rules).",
				Guidance:     "Look for specific procedures mentioned to prevent contamination (e.g., hand washing, tool sanitizing, following rules).",
			},
			{
				ID:           "cl4",
				Text:         "Share the personal hygiene habits you followed to prevent contamination of produce.",
				SearchQuery:  "horticulture personal hygiene habits",
				SearchModule: "horticulture_hygiene",
				SearchLimit:  2,
				CriteriaNYC:  "Habits listed are insufficient or incorrect.",
				CriteriaC:    "Lists relevant personal hygiene habits followed (e.g., hand washing frequency, no jewellery).",
				Guidance:     "Check for mention of personal hygiene habits applied (e.g., hand washing frequency, jewellery policy adherence, nail cleanliness, coughing into elbow).",
			},
			{
				ID:           "cl5",
				Text:         "Lets talk about additional evidence: Please tell us where you have uploaded photos, diagrams, videos, or workplace documents showing how you maintained hygiene so they can be included in your assessment.",
				SearchQuery:  "assessment supporting evidence submission",
				SearchModule: "assessment_process",
				SearchLimit:  0,
				CriteriaNYC:  "N/A - Information gathering.",
				CriteriaC:    "N/A - Information gathering.",
				Guidance:     "Record the user's response regarding evidence (photos, documents) and location/method of submission.",
			},
			{
				ID:           "cl6",
				Text:         "Anything else we should consider about your work or evidence?",
				SearchQuery:  "assessment additional information context",
				SearchModule: "assessment_process",
				SearchLimit:  0,
				CriteriaNYC:  "N/A - Information gathering.",
				CriteriaC:    "N/A - Information gathering.",
				Guidance:     "Record any other relevant context or information the user provides about their work or evidence.",
			},
		},
	}
}
