package auth

// NewFirebaseVerifierWithClient lets tests substitute the Firebase client.
func NewFirebaseVerifierWithClient(c idTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: c}
}
