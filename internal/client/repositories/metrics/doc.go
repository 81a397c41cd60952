// Package metrics stores company metric submissions made by RoleA
// identities.
//
// # Overview
//
// Repository is the interface used by higher-level services; NewRepository
// returns the implementation backed by a collection.Collection persisted under
// the "companyData" key.
//
// # Data Model
//
// Submissions are immutable once created. The percentage of users per
// product is computed at creation from the two counts and is never supplied
// by the caller. Queries return copies, newest first.
//
// Typical Usage
//
//	repo := metrics.NewRepository(store, log)
//	m, err := repo.Create(ctx, models.MetricInput{CompanyName: "Acme", NumberOfUsers: 3, NumberOfProducts: 4, OwnerID: uid})
//	latest := repo.LatestByOwner(ctx, uid)
package metrics
