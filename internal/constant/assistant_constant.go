package constant

const (
	AssistantDefaultModel       = "gpt-4o-mini"
	AssistantDefaultMaxTokens   = 2000
	AssistantDefaultTemperature = 0.7

	AssistantEmptyReply    = "I'm sorry, I couldn't generate a response."
	AssistantFallbackReply = "I'm sorry, I encountered an error while processing your request. Please try again."

	AssistantSystemPrompt = `You are an expert coding assistant specializing in HTML, CSS, and JavaScript. You help users with:
- Writing clean, semantic HTML code
- Creating responsive CSS layouts and styling
- JavaScript programming and DOM manipulation
- Debugging code issues
- Best practices and modern web development techniques
- Code explanations and tutorials

Always provide clear, well-commented code examples. When showing code, use proper formatting and explain what each part does. Be helpful, accurate, and encouraging.`
)

// New conversations without a title are named "New Chat <date>".
const (
	DefaultConversationTitlePrefix = "New Chat "
	DefaultConversationTitleLayout = "1/2/2006"
)

// Display messages returned to clients.
const (
	ErrMsgNotAuthenticated     = "Not authenticated"
	ErrMsgConversationNotFound = "Conversation not found"
	ErrMsgUserNotFound         = "User not found"
	ErrMsgAdminRequired        = "Access denied: Admin privileges required"
	ErrMsgInvalidCredentials   = "Invalid email or password"
	ErrMsgEmailTaken           = "Email is already registered"
	ErrMsgInvalidRefreshToken  = "Invalid or expired refresh token"
	ErrMsgInvalidMessageRole   = "Role must be 'user' or 'assistant'"
	ErrMsgInternal             = "Internal server error"
)
