package datagen

// intentTemplates holds the phrase templates and slot vocabulary for one
// intent. Placeholders in templates are written {slot} and filled from vocab.
type intentTemplates struct {
	Intent    string
	Templates []string
	Vocab     map[string][]string
}

// IntentNames is the canonical intent order for the office domain.
var IntentNames = []string{
	"salary_inquiry",
	"meeting_room_booking",
	"leave_request",
	"directory_search",
	"company_info",
	"employee_info",
	"employee_search",
}

var allTemplates = []intentTemplates{
	{
		Intent: "salary_inquiry",
		Templates: []string{
			"What is my {period} salary?",
			"Can you show me my {type} information?",
			"I need to check my {period} {type}",
			"How much do I earn {period}?",
			"What's my current {type}?",
			"Can I see my {type} details?",
			"I want to know my {period} compensation",
			"Please show my {type} breakdown",
			"What am I being paid {period}?",
			"I need my {type} statement",
		},
		Vocab: map[string][]string{
			"period": {"monthly", "annual", "yearly", "current", "this month", "this year"},
			"type":   {"salary", "pay", "compensation", "wage", "earnings", "paycheck", "income"},
		},
	},
	{
		Intent: "meeting_room_booking",
		Templates: []string{
			"I need to book a {room_type} for {time}",
			"Can I reserve {room_type} {time}?",
			"Book me a {room_type} for {time}",
			"I want to schedule a {room_type} {time}",
			"Is {room_type} available {time}?",
			"Reserve a {room_type} for {time}",
			"I need a {room_type} {time}",
			"Can you book {room_type} {time}?",
			"Schedule me a {room_type} for {time}",
			"I'd like to reserve a {room_type} {time}",
		},
		Vocab: map[string][]string{
			"room_type": {"meeting room", "conference room", "boardroom", "room", "conference hall", "meeting space"},
			"time":      {"tomorrow", "next week", "today", "this afternoon", "Monday", "Tuesday", "Friday", "next month", "at 2pm", "for 3 hours"},
		},
	},
	{
		Intent: "leave_request",
		Templates: []string{
			"I want to take {leave_type} {time}",
			"Can I request {leave_type} for {time}?",
			"I need {leave_type} {time}",
			"I'd like to apply for {leave_type} {time}",
			"Request {leave_type} for {time}",
			"I want to book {leave_type} {time}",
			"Can I have {leave_type} {time}?",
			"I need to take {leave_type} {time}",
			"Apply for {leave_type} {time}",
			"I'm requesting {leave_type} for {time}",
		},
		Vocab: map[string][]string{
			"leave_type": {"vacation", "sick leave", "time off", "personal leave", "annual leave", "PTO", "holiday"},
			"time":       {"next week", "tomorrow", "Monday", "this Friday", "next month", "two days", "a week", "three days"},
		},
	},
	{
		Intent: "directory_search",
		Templates: []string{
			"Find {person} in the {directory}",
			"Look up {person} in {directory}",
			"Search for {person} contact",
			"I need {person}'s {contact_type}",
			"What's {person}'s {contact_type}?",
			"Can you find {person}'s details?",
			"Search {directory} for {person}",
			"I'm looking for {person}",
			"Find {person}'s {contact_type}",
			"Look up {person}'s information",
		},
		Vocab: map[string][]string{
			"person":       {"John Smith", "Sarah Johnson", "Mike Brown", "Lisa Davis", "Tom Wilson", "employee", "person", "staff member"},
			"directory":    {"company directory", "employee directory", "staff directory", "phonebook", "contact list"},
			"contact_type": {"phone number", "email", "extension", "contact info", "details", "information"},
		},
	},
	{
		Intent: "company_info",
		Templates: []string{
			"What is the company {info_type}?",
			"Tell me about our {info_type}",
			"I need {info_type} information",
			"Can you provide {info_type} details?",
			"What's our company {info_type}?",
			"I want to know about {info_type}",
			"Show me {info_type} information",
			"What is our {info_type}?",
			"I need to know the {info_type}",
			"Can I get {info_type} details?",
		},
		Vocab: map[string][]string{
			"info_type": {"policy", "mission", "values", "history", "address", "phone number", "website", "headquarters", "locations", "departments"},
		},
	},
	{
		Intent: "employee_info",
		Templates: []string{
			"What is {employee}'s {info_type}?",
			"Tell me about {employee}",
			"I need {employee}'s {info_type}",
			"Can you show {employee}'s details?",
			"What's {employee}'s {info_type}?",
			"I want {employee}'s information",
			"Show me {employee}'s {info_type}",
			"Get {employee}'s {info_type}",
			"I need to know {employee}'s {info_type}",
			"Find {employee}'s {info_type}",
		},
		Vocab: map[string][]string{
			"employee":  {"John", "Sarah", "my manager", "the HR director", "my colleague", "the CEO"},
			"info_type": {"department", "position", "title", "role", "email", "phone", "office location", "reports"},
		},
	},
	{
		Intent: "employee_search",
		Templates: []string{
			"Find employees at {company} named {name}",
			"Search for {name} at {company}",
			"Look up {name} from {company}",
			"Who is {name} at {company}?",
			"Find {name} working at {company}",
			"Search {company} for {name}",
			"I'm looking for {name} at {company}",
			"Find staff named {name} at {company}",
			"Look for {name} in {company}",
			"Search for employees named {name} at {company}",
		},
		Vocab: map[string][]string{
			"company": {"ABC Corp", "XYZ Inc", "TechCorp", "GlobalTech", "InnovateCo", "the company", "our organization"},
			"name":    {"Smith", "Johnson", "Brown", "Davis", "Wilson", "Taylor", "Anderson", "Thomas"},
		},
	},
}
