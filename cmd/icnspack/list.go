package main

import (
	"fmt"
	"io"
	"os"

	"github.com/esimov/icnspack"
	"github.com/esimov/icnspack/utils"
)

// listContainer prints the elements of an icon container.
func listContainer(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	c, err := icnspack.ReadContainer(f)
	if err != nil {
		return err
	}

	slots := make(map[string]icnspack.SlotType)
	for _, s := range icnspack.Slots() {
		slots[s.OSType()] = s
	}
	for _, e := range c.Elements {
		if s, ok := slots[e.OSType]; ok {
			fmt.Fprintf(w, "%s\t%10s\t%v\n", e.OSType, utils.FormatSize(len(e.Data)), s)
			continue
		}
		fmt.Fprintf(w, "%s\t%10s\n", e.OSType, utils.FormatSize(len(e.Data)))
	}
	return nil
}
