package drafting

import (
	"strings"
)

// Topic is what a patient's help question was classified as.
type Topic string

const (
	TopicMedical       Topic = "medical"
	TopicPassword      Topic = "password"
	TopicProfile       Topic = "profile"
	TopicStatus        Topic = "status"
	TopicPrescriptions Topic = "prescriptions"
	TopicAppointments  Topic = "appointments"
	TopicFeedback      Topic = "feedback"
	TopicAccountClose  Topic = "account_close"
	TopicUnknown       Topic = "unknown"
)

// Reply is the assistant's answer to one help question.
type Reply struct {
	Topic Topic  `json:"topic"`
	Reply string `json:"reply"`
}

var medicalKeywords = []string{
	"medicine", "pain", "fever", "symptom", "diagnose", "treatment", "cure",
	"disease", "dosage", "better", "worse", "tablet", "capsule",
}

type assistRule struct {
	topic Topic
	match func(msg string) bool
	reply string
}

// Rules are tried in order; the first match answers.
var assistRules = []assistRule{
	{
		topic: TopicMedical,
		match: func(msg string) bool {
			return containsAny(msg, medicalKeywords...) && !containsAny(msg, "feedback", "how to")
		},
		reply: "I can help with system or account-related questions. Please consult your doctor for medical guidance.",
	},
	{
		topic: TopicPassword,
		match: func(msg string) bool {
			return strings.Contains(msg, "password") && containsAny(msg, "reset", "forgot", "change")
		},
		reply: "Passwords are managed by the clinic. Please contact the hospital helpdesk to reset your password.",
	},
	{
		topic: TopicProfile,
		match: func(msg string) bool {
			return containsAny(msg, "profile", "update detail", "change name", "phone number")
		},
		reply: "To update your profile:\n• Open 'Profile' from your dashboard.\n• You can change your phone number, gender, date of birth and address.\n• Name and email changes need the hospital helpdesk.",
	},
	{
		topic: TopicStatus,
		match: func(msg string) bool {
			return containsAny(msg, "report submitted", "summary")
		},
		reply: "System Note:\n• 'Report Submitted' means your doctor has received your feedback.\n• Summaries are for clinical guidance and may not be shown in every view.\n• Check 'Medical Records' periodically for updates.",
	},
	{
		topic: TopicPrescriptions,
		match: func(msg string) bool {
			return containsAny(msg, "prescription", "record", "report")
		},
		reply: "To view your prescriptions:\n• Click 'Medical Records' in the sidebar.\n• You will see all your consultations.\n• Click 'Download Prescription (PDF)' to save a copy.",
	},
	{
		topic: TopicAppointments,
		match: func(msg string) bool {
			return containsAny(msg, "appointment", "book", "cancel", "reschedule")
		},
		reply: "To manage appointments:\n• Use 'Book New Appointment' on your dashboard.\n• To view, reschedule or cancel, open 'My Appointments'.\n• Cancellations must be made at least 24 hours before the appointment.",
	},
	{
		topic: TopicFeedback,
		match: func(msg string) bool {
			return containsAny(msg, "feedback", "recovery", "how am i feeling")
		},
		reply: "To submit recovery feedback:\n• Go to 'Medical Records'.\n• Find your latest prescription.\n• Click 'Report Your Recovery' and fill in the details.\n• Your doctor will see it at your next visit.",
	},
	{
		topic: TopicAccountClose,
		match: func(msg string) bool {
			return containsAny(msg, "delete account", "delete my account", "remove my data", "close my account")
		},
		reply: "Account Deletion:\n• Medical records must be kept, so you cannot delete your account yourself.\n• Please ask the hospital administration to close it.",
	},
}

const fallbackReply = "I'm not sure about that. Please contact hospital support or try again."

// Assist answers a patient's help question about using the system. Medical
// questions are always deflected to the doctor.
func Assist(message string) Reply {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg != "" {
		for _, r := range assistRules {
			if r.match(msg) {
				return Reply{Topic: r.topic, Reply: r.reply}
			}
		}
	}
	return Reply{Topic: TopicUnknown, Reply: fallbackReply}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
