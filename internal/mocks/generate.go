// Package mocks provides mock implementations for testing hearth services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the repository interfaces in internal/core. To regenerate after interface
// changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockPortalRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), "owner", gomock.Any()).Return(portal, nil)
package mocks

// Generate mock for UserRepository interface from internal/core package.
// This creates MockUserRepository with methods GetBySubject, List, Upsert.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/hearthkeep/hearth/internal/core UserRepository

// Generate mock for PortalRepository interface from internal/core package.
// This creates MockPortalRepository with methods Create, GetByID, List, Update, Delete.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=portal_repository_mock.go github.com/hearthkeep/hearth/internal/core PortalRepository

// Generate mock for SessionResolver interface from internal/core package.
// This creates MockSessionResolver with method ResolvePrincipal.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_resolver_mock.go github.com/hearthkeep/hearth/internal/core SessionResolver
