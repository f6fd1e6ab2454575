// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Messagely Contributors

// Package auth provides credential verification and token handling for
// Messagely.
//
// # Domain Types
//
//   - User - a public profile; never carries password material
//   - Account - a User plus its password hash, used only to create users
//   - UserSummary - the directory listing shape
//
// # Collaborators
//
//   - UserRepository - the credential store (see auth/postgres)
//   - PasswordHasher - BcryptHasher, cost fixed at construction
//   - TokenIssuer - JWTIssuer, signing key fixed at construction
//
// # Services
//
// Service coordinates registration, authentication, token issue and
// verification, and profile lookups. It is created with NewAuthService,
// which validates its dependencies.
package auth
