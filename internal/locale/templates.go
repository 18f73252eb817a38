package locale

import "strings"

// Template identifies a response text that exists in every language.
type Template string

const (
	TemplateGreeting Template = "greeting"
	TemplateFallback Template = "fallback"

	TemplateOutreachGreeting Template = "outreach_greeting"
	TemplateOutreachDetails  Template = "outreach_details"
	TemplateOutreachScore    Template = "outreach_score"
	TemplateOutreachQuestion Template = "outreach_question"

	TemplateJobPay      Template = "job_pay"
	TemplateJobLocation Template = "job_location"
	TemplateJobHours    Template = "job_hours"
	TemplateJobBenefits Template = "job_benefits"

	TemplateInterviewPrompt    Template = "interview_prompt"
	TemplateInterviewConfirmed Template = "interview_confirmed"
	TemplateSchedulingCanceled Template = "scheduling_canceled"
	TemplateSchedulingFailed   Template = "scheduling_failed"
	TemplateSchedulingReprompt Template = "scheduling_reprompt"
	TemplateSuggestionsIntro   Template = "suggestions_intro"
	TemplateSuggestionsDay     Template = "suggestions_day"
	TemplateSuggestionsOutro   Template = "suggestions_outro"

	TemplateBookingMessage       Template = "booking_message"
	TemplateNotificationTitle    Template = "notification_title"
	TemplateNotificationWorker   Template = "notification_worker"
	TemplateNotificationEmployer Template = "notification_employer"
	TemplateReminder             Template = "reminder"

	TemplateCancelMessage      Template = "cancel_message"
	TemplateCancelTitle        Template = "cancel_title"
	TemplateCancelNotification Template = "cancel_notification"
)

// Slot is a named placeholder, written as {slot} inside a template.
type Slot string

const (
	SlotName         Slot = "name"
	SlotLocation     Slot = "location"
	SlotPay          Slot = "pay"
	SlotAvailability Slot = "availability"
	SlotSkills       Slot = "skills"
	SlotScore        Slot = "score"
	SlotDateTime     Slot = "datetime"
	SlotDate         Slot = "date"
	SlotTime         Slot = "time"
	SlotDuration     Slot = "duration"
	SlotTitle        Slot = "title"
	SlotTimes        Slot = "times"
	SlotReason       Slot = "reason"
)

// Slots carries the values substituted into a template.
type Slots map[Slot]string

var templates = map[Language]map[Template]string{
	English: {
		TemplateGreeting: "I'm here to help! How can I assist you today?",
		TemplateFallback: "I'd be happy to help! You can ask me about pay, location, schedule, or benefits. Would you like to schedule an interview?",

		TemplateOutreachGreeting: "Hi {name}! I'm Jale's assistant. I found a great opportunity that matches your skills!",
		TemplateOutreachDetails:  "📍 Location: {location}\n💰 Pay: {pay}\n🕐 Hours: {availability}\n📋 Skills needed: {skills}",
		TemplateOutreachScore:    "Based on your profile, you're a {score}% match for this role!",
		TemplateOutreachQuestion: "Would you like to know more about this position? I can also help you schedule an interview!",

		TemplateJobPay:      "The pay rate for this position is {pay}. This is competitive for your skill level in the {location} area.",
		TemplateJobLocation: "The job is located at {location}. The worksite is easily accessible by public transportation.",
		TemplateJobHours:    "The work schedule is {availability}. We can discuss flexible arrangements during the interview.",
		TemplateJobBenefits: "Benefits include competitive pay, flexible scheduling, and opportunities for skill development.",

		TemplateInterviewPrompt:    "Great! I can help you schedule an interview. When would work best for you? You can suggest:\n• A specific date (e.g., 'tomorrow at 2pm', 'Friday afternoon')\n• Or I can show you available time slots",
		TemplateInterviewConfirmed: "Perfect! I'm scheduling your interview for {datetime}. The employer will be notified and you'll receive a confirmation with the video meeting link.",
		TemplateSchedulingCanceled: "Okay, I've cancelled the interview scheduling. Is there anything else I can help you with?",
		TemplateSchedulingFailed:   "Sorry, there was an error scheduling the interview. Please try again or contact the employer directly.",
		TemplateSchedulingReprompt: "I couldn't understand the date/time. Please try again with a format like:\n• 'Tomorrow at 2pm'\n• 'Friday at 10am'\n• 'Next week at 3pm'\n\nOr say 'show options' to see suggested times.",
		TemplateSuggestionsIntro:   "Here are some suggested time slots:",
		TemplateSuggestionsDay:     "📅 {date}:\n{times}",
		TemplateSuggestionsOutro:   "Just let me know which one works for you, or suggest your own time!",

		TemplateBookingMessage:       "🎉 Interview scheduled!\n\n📅 Date: {date}\n⏰ Time: {time}\n⏱️ Duration: {duration} minutes\n\nYou'll receive a video meeting link before the interview. Make sure to test your camera and microphone!",
		TemplateNotificationTitle:    "Interview Scheduled",
		TemplateNotificationWorker:   "Your interview for {title} is scheduled for {datetime}",
		TemplateNotificationEmployer: "{name} scheduled an interview for {title} on {datetime}",
		TemplateReminder:             "📅 Reminder: You have an interview scheduled for {date} at {time}. Don't forget to join on time!",

		TemplateCancelMessage:      "Interview cancelled by {name}\nReason: {reason}",
		TemplateCancelTitle:        "Interview Cancelled",
		TemplateCancelNotification: "{name} cancelled the interview scheduled for {datetime}",
	},
	Spanish: {
		TemplateGreeting: "¡Estoy aquí para ayudarte! ¿En qué puedo ayudarte hoy?",
		TemplateFallback: "¡Con gusto te ayudo! Puedes preguntarme sobre pago, ubicación, horario o beneficios. ¿Te gustaría programar una entrevista?",

		TemplateOutreachGreeting: "¡Hola {name}! Soy el asistente de Jale. ¡Encontré una gran oportunidad que coincide con tus habilidades!",
		TemplateOutreachDetails:  "📍 Ubicación: {location}\n💰 Pago: {pay}\n🕐 Horario: {availability}\n📋 Habilidades necesarias: {skills}",
		TemplateOutreachScore:    "¡Según tu perfil, eres un {score}% compatible para este trabajo!",
		TemplateOutreachQuestion: "¿Te gustaría saber más sobre este puesto? ¡También puedo ayudarte a programar una entrevista!",

		TemplateJobPay:      "La tarifa de pago para este puesto es {pay}. Esto es competitivo para tu nivel de habilidad en el área de {location}.",
		TemplateJobLocation: "El trabajo está ubicado en {location}. El sitio de trabajo es fácilmente accesible en transporte público.",
		TemplateJobHours:    "El horario de trabajo es {availability}. Podemos discutir arreglos flexibles durante la entrevista.",
		TemplateJobBenefits: "Los beneficios incluyen pago competitivo, horarios flexibles y oportunidades de desarrollo de habilidades.",

		TemplateInterviewPrompt:    "¡Genial! Puedo ayudarte a programar una entrevista. ¿Cuándo te vendría mejor? Puedes sugerir:\n• Una fecha específica (ej: 'mañana a las 2pm', 'viernes por la tarde')\n• O puedo mostrarte horarios disponibles",
		TemplateInterviewConfirmed: "¡Perfecto! Estoy programando tu entrevista para {datetime}. El empleador será notificado y recibirás una confirmación con el enlace de videollamada.",
		TemplateSchedulingCanceled: "Está bien, cancelé la programación de la entrevista. ¿Hay algo más en lo que pueda ayudarte?",
		TemplateSchedulingFailed:   "Lo siento, hubo un error al programar la entrevista. Por favor, inténtalo de nuevo o contacta al empleador directamente.",
		TemplateSchedulingReprompt: "No pude entender la fecha/hora. Por favor, intenta de nuevo con un formato como:\n• 'Mañana a las 2pm'\n• 'Viernes a las 10am'\n• 'Próxima semana a las 3pm'\n\nO di 'mostrar opciones' para ver horarios sugeridos.",
		TemplateSuggestionsIntro:   "Aquí hay algunos horarios sugeridos:",
		TemplateSuggestionsDay:     "📅 {date}:\n{times}",
		TemplateSuggestionsOutro:   "¡Solo dime cuál prefieres, o sugiere tu propio horario!",

		TemplateBookingMessage:       "🎉 ¡Entrevista programada!\n\n📅 Fecha: {date}\n⏰ Hora: {time}\n⏱️ Duración: {duration} minutos\n\nRecibirás un enlace de videollamada antes de la entrevista. ¡Asegúrate de probar tu cámara y micrófono!",
		TemplateNotificationTitle:    "Entrevista programada",
		TemplateNotificationWorker:   "Tu entrevista para {title} está programada para {datetime}",
		TemplateNotificationEmployer: "{name} programó una entrevista para {title} el {datetime}",
		TemplateReminder:             "📅 Recordatorio: Tienes una entrevista programada para {date} a las {time}. ¡No olvides unirte a tiempo!",

		TemplateCancelMessage:      "Entrevista cancelada por {name}\nMotivo: {reason}",
		TemplateCancelTitle:        "Entrevista cancelada",
		TemplateCancelNotification: "{name} canceló la entrevista programada para {datetime}",
	},
}

// Render fills template id for lang with slots. Placeholders without a value are left
// as written; unsupported languages render in Default.
func Render(lang Language, id Template, slots Slots) string {
	tmpl := templates[lang.orDefault()][id]
	if len(slots) == 0 {
		return tmpl
	}

	pairs := make([]string, 0, len(slots)*2)
	for slot, value := range slots {
		pairs = append(pairs, "{"+string(slot)+"}", value)
	}

	return strings.NewReplacer(pairs...).Replace(tmpl)
}
