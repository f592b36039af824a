// Package database handles the connection to the local mirror database.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure MySQL connections based on the application's configuration. The
// mirror database holds one row per tracked catalog entity, including its
// lifecycle status, propagation status, and change fingerprint.
//
// # Connect
//
// The Connect function establishes a connection with sane pool defaults and
// verifies it with a ping before returning.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
