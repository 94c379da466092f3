package dto

// AdminLoginRequest is the admin sign-in form
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@vku.udn.vn"`
	Password string `json:"password" binding:"required"`
}

// StudentLoginRequest is the student sign-in form. Identifier is either a
// username or an institutional email address.
type StudentLoginRequest struct {
	Identifier string `json:"identifier" binding:"required" example:"nqa@vku.udn.vn"`
	Password   string `json:"password" binding:"required"`
}

// TokenResponse carries an issued session token
type TokenResponse struct {
	AccessToken string           `json:"accessToken"`
	TokenType   string           `json:"tokenType" example:"Bearer"`
	ExpiresIn   int              `json:"expiresIn" example:"43200"`
	Student     *StudentResponse `json:"student,omitempty"`
}
