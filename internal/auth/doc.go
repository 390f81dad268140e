// Package auth provides local username/password authentication backed by
// server-side sessions.
//
// # Flow
//
//	POST /signup  -> Service.Signup      -> PasswordVerifier.Hash -> IdentityStore.Create
//	POST /login   -> Strategy.Authenticate (LookingUp -> Verifying -> Accepted|Rejected)
//	              -> SessionManager.Serialize (identity id into the session)
//	any guarded   -> Middleware.RequireIdentity -> SessionManager.Restore
//
// Rejections carry a client-safe Reason ("You are not registered",
// "Incorrect password"); both paths spend one bcrypt comparison.
//
// # Configuration
//
//	AUTH_BCRYPT_COST=10                 # bcrypt cost factor
//	FRONTEND_URL=http://localhost:3000  # login redirect target
//	SESSION_LIFETIME=24h                # idle timeout is half of it
//	SESSION_SECURE_COOKIES=false        # HTTPS-only cookies when true
//	CSRF_ENABLED=false                  # gorilla/csrf on unsafe methods
//
// # Usage
//
//	verifier, _ := auth.NewPasswordVerifier(cfg.Auth.BcryptCost)
//	service := auth.NewService(identitiesRepo, verifier)
//	sessions := auth.NewSessionManager(store, identitiesRepo, cfg.Session)
//	router.Use(sessions.SessionLoadSave())
//	guard := auth.NewMiddleware(sessions).RequireIdentity()
//
// Extract the identity in handlers:
//
//	identity := auth.GetIdentity(c)
package auth
