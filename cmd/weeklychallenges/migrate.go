package main

import "weekly-challenges/internal/repository"

type MigrateCmd struct{}

func (c *MigrateCmd) Run(globals *Globals) error {
	_, log, db, err := bootstrap(globals)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repository.Migrate(db); err != nil {
		return err
	}
	log.Info("schema is up to date")
	return nil
}
