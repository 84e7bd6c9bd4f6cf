package login

// Messages shown on the login page.
const (
	// MsgInvalidCredentials is shown for an unknown email or a wrong password.
	MsgInvalidCredentials = "Email ou mot de passe incorrect."

	// MsgInvalidFormData is shown when the form misses a field.
	MsgInvalidFormData = "Veuillez saisir votre email et votre mot de passe."

	// MsgTooManyAttempts is shown when the client is throttled.
	MsgTooManyAttempts = "Trop de tentatives de connexion, réessayez dans quelques instants."

	// MsgInternalServerError is shown for unexpected failures.
	MsgInternalServerError = "Une erreur interne est survenue."
)
