package character

import "fmt"

var errEmptyID = fmt.Errorf("character: empty id")

func duplicateIDError(id string) error {
	return fmt.Errorf("character: duplicate id %q", id)
}
