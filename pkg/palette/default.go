package palette

// defaultColors approximates the engine palette. Indices 10-225 are eighteen
// ramps of twelve shades; 230-239 animate water and 243-254 hold the primary
// remap ramp. Load the palette image shipped with the game data through
// LoadFile when exact colours matter.
var defaultColors = [Size]Color{
	{0, 0, 0}, {1, 1, 1}, {2, 2, 2}, {3, 3, 3},
	{4, 4, 4}, {5, 5, 5}, {6, 6, 6}, {7, 7, 7},
	{8, 8, 8}, {9, 9, 9}, {23, 35, 35}, {43, 54, 54},
	{62, 73, 73}, {82, 92, 92}, {102, 111, 111}, {121, 130, 130},
	{141, 148, 148}, {160, 167, 167}, {180, 186, 186}, {200, 205, 205},
	{219, 224, 224}, {239, 243, 243}, {35, 31, 0}, {52, 49, 15},
	{70, 67, 30}, {87, 86, 44}, {105, 104, 59}, {122, 122, 74},
	{140, 140, 89}, {157, 158, 104}, {175, 176, 119}, {192, 195, 133},
	{210, 213, 148}, {227, 231, 163}, {43, 19, 11}, {62, 35, 23},
	{81, 52, 36}, {100, 68, 48}, {119, 84, 60}, {138, 101, 73},
	{156, 117, 85}, {175, 134, 98}, {194, 150, 110}, {213, 166, 122},
	{232, 183, 135}, {251, 199, 147}, {55, 35, 0}, {73, 54, 7},
	{91, 72, 14}, {110, 91, 22}, {128, 109, 29}, {146, 128, 36},
	{164, 146, 43}, {182, 165, 50}, {200, 183, 57}, {219, 202, 65},
	{237, 220, 72}, {255, 239, 79}, {51, 7, 7}, {70, 24, 23},
	{88, 40, 38}, {107, 57, 54}, {125, 74, 70}, {144, 91, 85},
	{162, 107, 101}, {181, 124, 116}, {199, 141, 132}, {218, 158, 148},
	{236, 174, 163}, {255, 191, 179}, {19, 43, 11}, {35, 61, 24},
	{52, 79, 37}, {68, 98, 50}, {84, 116, 63}, {101, 134, 76},
	{117, 152, 90}, {134, 170, 103}, {150, 188, 116}, {166, 207, 129},
	{183, 225, 142}, {199, 243, 155}, {27, 35, 19}, {42, 51, 30},
	{56, 67, 41}, {71, 83, 52}, {85, 99, 63}, {100, 115, 74},
	{114, 131, 84}, {129, 147, 95}, {143, 163, 106}, {158, 179, 117},
	{172, 195, 128}, {187, 211, 139}, {0, 47, 7}, {10, 64, 15},
	{20, 80, 23}, {30, 97, 31}, {40, 114, 39}, {50, 131, 47},
	{61, 147, 55}, {71, 164, 63}, {81, 181, 71}, {91, 198, 79},
	{101, 214, 87}, {111, 231, 95}, {39, 19, 11}, {56, 34, 21},
	{73, 49, 31}, {90, 64, 42}, {107, 79, 52}, {124, 94, 62},
	{142, 108, 72}, {159, 123, 82}, {176, 138, 92}, {193, 153, 103},
	{210, 168, 113}, {227, 183, 123}, {11, 11, 55}, {26, 28, 73},
	{40, 45, 91}, {55, 62, 110}, {69, 79, 128}, {84, 96, 146},
	{98, 114, 164}, {113, 131, 182}, {127, 148, 200}, {142, 165, 219},
	{156, 182, 237}, {171, 199, 255}, {11, 0, 39}, {30, 16, 58},
	{49, 31, 78}, {68, 47, 97}, {87, 62, 116}, {106, 78, 135},
	{124, 93, 155}, {143, 109, 174}, {162, 124, 193}, {181, 140, 212},
	{200, 155, 232}, {219, 171, 251}, {55, 0, 0}, {73, 13, 9},
	{91, 26, 19}, {110, 39, 28}, {128, 52, 37}, {146, 65, 47},
	{164, 78, 56}, {182, 91, 66}, {200, 104, 75}, {219, 117, 84},
	{237, 130, 94}, {255, 143, 103}, {59, 27, 0}, {77, 43, 9},
	{95, 58, 17}, {112, 74, 26}, {130, 90, 35}, {148, 105, 43},
	{166, 121, 52}, {184, 136, 60}, {202, 152, 69}, {219, 168, 78},
	{237, 183, 86}, {255, 199, 95}, {0, 39, 43}, {12, 58, 60},
	{24, 76, 78}, {36, 95, 95}, {48, 113, 113}, {60, 132, 130},
	{71, 150, 148}, {83, 169, 165}, {95, 187, 183}, {107, 206, 200},
	{119, 224, 218}, {131, 243, 235}, {43, 0, 27}, {62, 14, 44},
	{81, 28, 60}, {100, 42, 77}, {119, 56, 94}, {138, 70, 111},
	{156, 85, 127}, {175, 99, 144}, {194, 113, 161}, {213, 127, 178},
	{232, 141, 194}, {251, 155, 211}, {31, 15, 0}, {48, 28, 8},
	{64, 42, 17}, {81, 55, 25}, {98, 69, 33}, {115, 82, 41},
	{131, 96, 50}, {148, 109, 58}, {165, 123, 66}, {182, 136, 74},
	{198, 150, 83}, {215, 163, 91}, {0, 27, 55}, {13, 43, 73},
	{26, 60, 91}, {39, 76, 110}, {52, 92, 128}, {65, 109, 146},
	{78, 125, 164}, {91, 142, 182}, {104, 158, 200}, {117, 174, 219},
	{130, 191, 237}, {143, 207, 255}, {35, 0, 11}, {54, 12, 24},
	{74, 23, 36}, {93, 35, 49}, {112, 46, 62}, {131, 58, 75},
	{151, 69, 87}, {170, 81, 100}, {189, 92, 113}, {208, 104, 126},
	{228, 115, 138}, {247, 127, 151}, {107, 0, 0}, {203, 111, 0},
	{95, 75, 11}, {35, 103, 159}, {35, 55, 75}, {47, 67, 87},
	{59, 83, 99}, {71, 95, 111}, {87, 111, 127}, {99, 127, 139},
	{115, 139, 155}, {131, 155, 167}, {147, 171, 183}, {163, 187, 199},
	{75, 75, 75}, {115, 115, 115}, {155, 155, 155}, {47, 0, 35},
	{66, 13, 51}, {85, 26, 68}, {104, 39, 84}, {123, 52, 100},
	{142, 65, 117}, {160, 78, 133}, {179, 91, 150}, {198, 104, 166},
	{217, 117, 182}, {236, 130, 199}, {255, 143, 215}, {255, 255, 255},
}
