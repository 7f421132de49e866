package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"
)

// Onboarding dialogue. The wording is part of the client contract; widgets
// match on these strings.
const (
	PromptAskEmail     = "What is your email address?"
	PromptInvalidEmail = "That doesn’t look like an email. Please enter a valid email address."
	PromptAskName      = "What is your name?"
	PromptAskService   = "For what service are you looking?"

	// GreetingFormat takes the lead's name.
	GreetingFormat = "Hi! %s, How can I assist you?"
)
