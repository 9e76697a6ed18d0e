package assessments

// dtlConfig is the Contract Milking assessment for the CM101 course.
func dtlConfig() *Config {
	return &Config{
		Kind:        "dtl",
		CourseID:    "cm101",
		Preamble:    "Kia ora and welcome to your Contract Milking Assessment! The purpose of this assessment is to evaluate your contract and financial literacy skills to ensure your success in the New Zealand Dairy Industry.",
		Voice:       "ballad",
		Temperature: 0.6,
		Questions: []Question{
			{
				ID:           "q1",
				Text:         "What do you consider to be one of the most likely issues to arise during a contract milking term?",
				SearchQuery:  "common issues problems disputes contract milking term",
				SearchModule: "contract_obligations",
				SearchLimit:  2,
				CriteriaNYC:  "Answer demonstrates lack of understanding of common contract issues.",
				CriteriaC:    "Answer demonstrates understanding of common contract issues.",
				Guidance: `Common contract issues include divergent expectations/beliefs around:
Milk Production
Inputs (supplementary feed, fertiliser)
Extreme event management affecting production (e.g. drought, floods)
Values/philosophy on farming
Minimums not achieved e.g. cow numbers, body condition score, pasture cover, feed on hand.
Conditions at takeover below standard agreed e.g. rubberware not changed, records incorrect, housing issues, weeds, farm infrastructure in poor state.
Broken promises. A party says they'll do something but don't follow through, affecting the other party.`,
			},
			{
				ID:           "q1b",
				Text:         "What are the contract guidelines or rules for this issue?",
				SearchQuery:  "contract guidelines rules contract milking term",
				SearchModule: "contract_obligations",
				SearchLimit:  2,
				CriteriaNYC:  "Answer demonstrates lack of understanding of contract guidelines or rules for the issue.",
				CriteriaC:    "Answer demonstrates understanding of contract guidelines or rules for the issue.",
				Guidance:     "The answer would depend on the issue selected however it must reference the appropriate item or clause in the Federated Farmers Contract Milking Agreement.",
			},
			{
				ID:           "q2a",
				Text:         "Who would you go to for help if an issue arose and you needed advice or support in resolving the issue?",
				SearchQuery:  "agencies organizations support advice contract milking negotiation",
				SearchModule: "contract_obligations",
				SearchLimit:  2,
				CriteriaNYC:  "Answer shows lack of knowledge of potential sources of advice and support.",
				CriteriaC:    "Answer shows knowledge of potential sources of advice and support.",
				Guidance: `The answers would depend on the issue however possible answers include:
Lawyer or Federated Farmers for clarification of contract rights and responsibilities
Accountant for queries around financial issues
Farm advisor/DairyNZ Engagement Partner for advice on farm management issues.`,
			},
			{
				ID:           "q2b",
				Text:         "Why would you go to these agencies, groups, or people in particular?",
				SearchQuery:  "agencies organizations support advice contract milking negotiation",
				SearchModule: "contract_obligations",
				SearchLimit:  2,
				CriteriaNYC:  "Answer shows lack of understanding of the support needs and appropriate avenues for advice and support.",
				CriteriaC:    "Answer shows understanding of the support needs and appropriate avenues for advice and support.",
				Guidance: `The answers would depend on the issue however possible answers include:
Lawyer or Federated Farmers for clarification of contract rights and responsibilities
Accountant for queries around financial issues
Farm advisor/DairyNZ Engagement Partner for advice on farm management issues.`,
			},
			{
				ID:           "q3",
				Text:         "How would you prepare if you were going to negotiate, or re-negotiate a contract milking contract?",
				SearchQuery:  "contract milking negotiation preparation planning",
				SearchModule: "contract_obligations",
				SearchLimit:  2,
				CriteriaNYC:  "Answer shows lack of understanding of appropriate preparation for negotiations.",
				CriteriaC:    "Answer shows understanding of preparation required to support negotiations. Answer to include information, documents, advice, checks, and other preparation required to support a desired outcome.",
				Guidance: `Answer to include information, documents, budgets, advice, checks, and other preparation required to support a desired outcome.
Arrange a meeting at a suitable time, explaining that it will be to discuss the contract.`,
			},
		},
	}
}
