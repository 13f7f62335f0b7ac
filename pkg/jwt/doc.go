// Package jwt signs and validates the RS256 access tokens the API accepts.
//
// Tokens are issued by the identity service; this package only needs the
// public key to validate them. The private key is loaded by matchctl to mint
// local development tokens.
//
//	svc, err := jwt.NewService(jwt.Config{
//	    PublicKeyPath: "keys/public.pem",
//	    Issuer:        "loveconnect",
//	})
//	claims, err := svc.Validate(tokenString)
//	userID := claims.UserID
package jwt
