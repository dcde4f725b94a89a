/*
Copyright (C) 2026  coldt contributors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/memcolumn/coldt"
	"github.com/memcolumn/coldt/internal/logx"
	"github.com/memcolumn/coldt/internal/rtpool"
	"github.com/memcolumn/coldt/internal/source"
)

func main() {
	fmt.Print(`coldt Copyright (C) 2026  coldt contributors
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;
`)

	path := flag.String("csv", "", "path to a CSV file to read")
	jayOut := flag.String("to-jay", "", "if set, write the parsed frame to this Jay file")
	nthreads := flag.Int("nthreads", 0, "worker thread count (0 picks runtime.NumCPU())")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: coldt -csv <file> [-to-jay <file>]")
		os.Exit(2)
	}

	p := rtpool.Default()
	if *nthreads > 0 {
		p = rtpool.NewPool(*nthreads)
	}

	in := source.Input{Path: path}
	f, err := coldt.Read(p, in, coldt.ReadOptions{Logger: logx.NewStdLogger(os.Stderr)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "coldt: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("read %d rows x %d cols: %v\n", f.Nrows(), f.Ncols(), f.Names())
	fmt.Println(logx.MemStats())

	if *jayOut != "" {
		if err := f.ToJay(p, *jayOut); err != nil {
			fmt.Fprintf(os.Stderr, "coldt: writing %s: %v\n", *jayOut, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *jayOut)
	}
}
