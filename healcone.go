/*healcone computes the nested HEALPix cells covered by fixed-radius cones.

Usage:

    healcone random -n 1000 --seed 7 | healcone cone --radius "30 arcmin" -d 12
    healcone hash --depth 8 < positions.txt
    healcone config cone > cone.config
*/
package main

import (
	"fmt"
	"os"

	"github.com/phil-mansfield/healcone/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		fmt.Fprintln(os.Stderr, "For help, type 'healcone help'.")
		os.Exit(1)
	}
}
