// Package environment describes the deployment environment a store runs in
// (development, staging or production) and propagates it through
// context.Context and structured logs.
//
// The environment changes behaviour in one place: in Development a key
// derivation requested before the key manager finished initializing panics,
// while every other environment logs the failure and keeps going.
//
// # Usage
//
//	import "github.com/dmitrymomot/securestore/pkg/environment"
//
//	env := environment.Parse(os.Getenv("SECURESTORE_ENV"))
//	if env.IsDevelopment() {
//	    // strict checks
//	}
//
//	ctx = environment.WithContext(ctx, env)
//	log := logger.New(logger.WithContextExtractors(environment.LogAttr))
//
// # Error Handling
//
// Helpers never return errors. Missing values result in the zero value ("")
// and Parse falls back to Production.
package environment
