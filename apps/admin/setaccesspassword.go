package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) setAccessPassword(pwd string) error {
	if err := cli.settingSvc.SetAccessPassword(context.Background(), pwd); err != nil {
		return err
	}
	fmt.Println("access password updated")
	return nil
}
