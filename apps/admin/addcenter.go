package main

import (
	"context"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/center"
)

func (cli *commandLine) addCenter(name string) error {
	ctx := context.Background()
	name = core.CleanString(name)

	if err := cli.centerRepo.CheckNameUniqueness(ctx, name); err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err := cli.centerRepo.CreateCenter(ctx, center.Center{
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return err
}
