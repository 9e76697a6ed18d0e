package assessments

// fruitionConfig is the Horticulture Workplace Hygiene assessment.
func fruitionConfig() *Config {
	return &Config{
		Kind:        "fruition",
		CourseID:    "fruition-23359",
		Preamble:    "Kia ora! This is an open-book assessment. You may use any workplace information to help you complete the tasks. All answers must be in your own words. This assessment requires completion of four main questions and checklist. After the assessment, you will be asked to complete a feedback survey. You will have two opportunities to resubmit if needed. You can ask me to repeat a question if you need to hear it again.",
		Voice:       "shimmer",
		Temperature: 0.8,
		Questions: []Question{
			{
				ID:           "h1a",
				Text:         "I am going to list three personal protective equipment items. We will call it PPE for short. Thinking about the workplace procedures, can you please describe how each item maintains workplace hygiene. Our first item is a Hairnet or a snood (to cover facial hair). How does this maintain workplace hygiene?",
				SearchQuery:  "horticulture workplace hygiene hairnet snood",
				SearchModule: "horticulture_hygiene",
				SearchLimit:  2,
				CriteriaNYC:  "Answer does not explain how the item prevents produce contamination.",
				CriteriaC:    "Answer explains how the item prevents produce contamination.",
				Guidance:     "Wearing a hair net or snood stops hair falling into the produce and contaminating it.",
			},
			{
				ID:           "h1b",
				Text:         "The next item is gloves. How does this maintain workplace hygiene?",
				SearchQuery:  "horticulture workplace hygiene gloves",
				SearchModule: "horticulture_hygiene",
				SearchLimit:  2,
				CriteriaNYC:  "Answer does not explain how gloves prevent produce contamination.",
				CriteriaC:    "Answer explains how gloves prevent produce contamination.",
				Guidance:     "Wearing gloves helps to stop infectious diseases spreading and prevent direct hand-to-produce contact.",
			},
			{
				ID:           "h1c",
				Text:         "And our last item is aprons. How does this maintain workplace hygiene?",
				SearchQuery:  "horticulture workplace hygiene aprons",
				SearchModule: "horticulture_hygiene",
				SearchLimit:  2,
				CriteriaNYC:  "Answer does not explain how aprons prevent produce contamination.",
				CriteriaC:    "Answer explains how aprons prevent produce contamination.",
				Guidance:     "Aprons help keep clothing clean and avoid product contamination from personal clothing. Mention using clean aprons.",
			},
			{
				ID:           "h2a",
				Text:         "You're about to handle produce on the work floor. For each situation, describe the correct personal hygiene practices to minimise produce contamination. First hand washing. How and when should you wash your hands?",
				SearchQuery:  "horticulture hygiene hand washing procedure",
				SearchModule: "horticulture_hygiene",
				SearchLimit:  2,
				CriteriaNYC:  "Answer misses the hand washing steps or the situations where washing is required.",
				CriteriaC:    "Answer covers both the hand washing steps and when washing is required.",
				Guidance:     "Describe steps (wet, soap, lather & scrub, rinse ~10 seconds, dry) and when it's required (after toilet, handling chemicals, before/after breaks, after work).",
			},
			{
				ID:           "h2b",
				Text:         "Next, exposed cuts. How do you manage these?",
				SearchQuery:  "horticulture hygiene exposed cuts wounds",
				SearchModule: "horticulture_hygiene",
				SearchLimit:  2,
				CriteriaNYC:  "Answer does not cover correct management of exposed cuts.",
				CriteriaC:    "Answer covers correct management of exposed cuts.",
				Guidance:     "Explain cuts must be covered with a waterproof, visible dressing (plaster), potentially gloves.",
			},
			{
				ID:           "h3",
				Text:         "While doing this work, you notice something that doesn't look clean or safe. Describe workplace procedures if you identify unhygienic conditions? What is the reporting procedure?",
				SearchQuery:  "horticulture reporting unhygienic conditions procedure",
				SearchModule: "horticulture_hygiene",
				SearchLimit:  2,
				CriteriaNYC:  "Answer does not describe a reporting procedure.",
				CriteriaC:    "Answer describes the reporting procedure for unhygienic conditions.",
				Guidance:     "Explain the procedure for reporting unhygienic conditions immediately to a supervisor/manager, mentioning both routine checks (e.g., hazard ID) and ad-hoc reporting (e.g., blocked toilet, no supplies).",
			},
			{
				ID:           "h4a",
				Text:         "Describe three health conditions that could cause produce contamination. Tell us about the first health condition. Don't forget to tell us the symptoms and spread.",
				SearchQuery:  "health conditions foodborne illness produce contamination symptoms spread",
				SearchModule: "horticulture_hygiene",
				SearchLimit:  2,
				CriteriaNYC:  "Answer misses a relevant health condition, its symptoms, or how it spreads.",
				CriteriaC:    "Answer names a relevant health condition with its symptoms and how it spreads.",
				Guidance:     "Look for a recognised condition (e.g., norovirus, hepatitis A, COVID-19) with plausible symptoms and a transmission route.",
			},
		},
	}
}
