// Copyright 2020, LordMir. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lstring

// The three fixed character sets used by the game's string tables. These are
// process-wide constants initialised once and never mutated.
var (
	mainCharmap    *charmap
	introCharmap   *charmap
	creditsCharmap *charmap
)

func init() {
	mainCharmap = newCharmap([]charmapEntry{
		{0, " "}, {1, "0"}, {2, "1"}, {3, "2"}, {4, "3"}, {5, "4"}, {6, "5"}, {7, "6"},
		{8, "7"}, {9, "8"}, {10, "9"}, {11, "A"}, {12, "B"}, {13, "C"}, {14, "D"}, {15, "E"},
		{16, "F"}, {17, "G"}, {18, "H"}, {19, "I"}, {20, "J"}, {21, "K"}, {22, "L"}, {23, "M"},
		{24, "N"}, {25, "O"}, {26, "P"}, {27, "Q"}, {28, "R"}, {29, "S"}, {30, "T"}, {31, "U"},
		{32, "V"}, {33, "W"}, {34, "X"}, {35, "Y"}, {36, "Z"}, {37, "a"}, {38, "b"}, {39, "c"},
		{40, "d"}, {41, "e"}, {42, "f"}, {43, "g"}, {44, "h"}, {45, "i"}, {46, "j"}, {47, "k"},
		{48, "l"}, {49, "m"}, {50, "n"}, {51, "o"}, {52, "p"}, {53, "q"}, {54, "r"}, {55, "s"},
		{56, "t"}, {57, "u"}, {58, "v"}, {59, "w"}, {60, "x"}, {61, "y"}, {62, "z"}, {63, "*"},
		{64, "."}, {65, ","}, {66, "?"}, {67, "!"}, {68, "/"}, {69, "<"}, {70, ">"}, {71, ":"},
		{72, "-"}, {73, "'"}, {74, "\""}, {75, "%"}, {76, "#"}, {77, "&"}, {78, "("}, {79, ")"},
		{80, "="}, {81, "{NW}"}, {82, "{NE}"}, {83, "{SE}"}, {84, "{SW}"},
	})

	introCharmap = newCharmap([]charmapEntry{
		{0, " "}, {1, "A"}, {2, "B"}, {3, "C"}, {4, "D"}, {5, "E"}, {6, "F"}, {7, "G"},
		{8, "H"}, {9, "I"}, {10, "J"}, {11, "K"}, {12, "L"}, {13, "M"}, {14, "N"}, {15, "O"},
		{16, "P"}, {17, "Q"}, {18, "R"}, {19, "S"}, {20, "T"}, {21, "U"}, {22, "V"}, {23, "W"},
		{24, "X"}, {25, "Y"}, {26, "Z"}, {27, "1"}, {28, "2"}, {29, "3"},
	})

	creditsCharmap = newCharmap([]charmapEntry{
		{1, " "}, {2, "A"}, {3, "B"}, {4, "C"}, {5, "D"}, {6, "E"}, {7, "F"}, {8, "G"},
		{9, "H"}, {10, "I"}, {11, "J"}, {12, "K"}, {13, "L"}, {14, "M"}, {15, "N"}, {16, "O"},
		{17, "P"}, {18, "Q"}, {19, "R"}, {20, "S"}, {21, "T"}, {22, "U"}, {23, "V"}, {24, "W"},
		{25, "X"}, {26, "Y"}, {27, "Z"}, {28, "a"}, {29, "b"}, {30, "c"}, {31, "d"}, {32, "e"},
		{33, "f"}, {34, "g"}, {35, "h"}, {36, "i"}, {37, "j"}, {38, "k"}, {39, "l"}, {40, "m"},
		{41, "n"}, {42, "o"}, {43, "p"}, {44, "q"}, {45, "r"}, {46, "s"}, {47, "t"}, {48, "u"},
		{49, "v"}, {50, "w"}, {51, "x"}, {52, "y"}, {53, "z"}, {54, "1"}, {55, "3"}, {56, "9"},
		{57, "(C)"}, {58, "(3)"}, {59, "-"}, {60, ","}, {61, "."},
		{64, "{K1}"}, {65, "{K2}"}, {66, "{K3}"}, {67, "{K4}"},
		{128, "_"}, {129, "{UL1}"}, {130, "{UL2}"}, {0xFF, "{CTRL}"},
	})
}
