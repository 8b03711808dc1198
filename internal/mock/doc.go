// Package mock provides a scripted stand-in for the survey generation service.
//
// The stub serves the same two routes as the real service, under a
// configurable prefix:
//
//	GET  /api/health
//	POST /api/generate  {"requirement": "..."}
//
// Like the real service it answers 400 with an error envelope when the
// requirement is missing or blank. Otherwise it replies with the next
// scripted Response from a Scenario; the last response repeats.
//
// # Scenario File
//
//	health:
//	  status: healthy
//	responses:
//	  - status: error
//	    message: quota exceeded
//	    http_status: 200
//	  - status: success
//	    delay: 3s
//	    data:
//	      survey_name: Customer Satisfaction Survey
//	      questions:
//	        - question_text: How satisfied are you?
//	          options: [Unsatisfied, Neutral, Satisfied]
//
// The stub is used by `surveygen mock` for local development and by tests
// that need a live endpoint.
package mock
