// Package services holds the application logic the CLI calls into. AuthService
// runs sign up and sign in against an identity.Gateway; Dashboard gates the
// metrics and files use cases by role; SeedDemo installs demo records.
package services
