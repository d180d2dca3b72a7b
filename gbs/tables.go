package gbs

// ADPCM tables recovered from the reference decoder. The diff table folds
// the 4-bit quantizer into one lookup per nibble; entries above step 85
// saturate at the signed 16-bit limits.

// Standard IMA ADPCM step table (89 entries).
var imaStepTable = [89]int16{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17,
	19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118,
	130, 143, 157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658, 724, 796,
	876, 963, 1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066,
	2272, 2499, 2749, 3024, 3327, 3660, 4026, 4428, 4871, 5358,
	5894, 6484, 7132, 7845, 8630, 9493, 10442, 11487, 12635, 13899,
	15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794, 32767,
}

// Standard IMA ADPCM index adjustment table (4-bit codes).
var imaIndexTable = [16]int8{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

// 3-bit index adjustment table.
var adpcm3IndexTable = [8]int8{
	-1, -1, 2, 6, -1, -1, 2, 6,
}

// 4-bit diff table: 89 steps x 16 nibbles, indexed step_index*16 + nibble.
var imaDiffTable = [89 * 16]int16{
	0, 1, 3, 4, 7, 8, 10, 11, 0, -1, -3, -4, -7, -8, -10, -11,
	1, 2, 4, 5, 8, 9, 11, 12, -1, -2, -4, -5, -8, -9, -11, -12,
	1, 2, 4, 5, 9, 10, 12, 13, -1, -2, -4, -5, -9, -10, -12, -13,
	1, 2, 5, 6, 10, 11, 14, 15, -1, -2, -5, -6, -10, -11, -14, -15,
	1, 3, 5, 7, 11, 13, 15, 17, -1, -3, -5, -7, -11, -13, -15, -17,
	1, 3, 6, 8, 12, 14, 17, 19, -1, -3, -6, -8, -12, -14, -17, -19,
	1, 3, 6, 8, 13, 15, 18, 20, -1, -3, -6, -8, -13, -15, -18, -20,
	1, 4, 7, 9, 14, 17, 20, 22, -1, -4, -7, -9, -14, -17, -20, -22,
	2, 4, 8, 10, 16, 18, 22, 24, -2, -4, -8, -10, -16, -18, -22, -24,
	2, 4, 8, 10, 17, 19, 23, 25, -2, -4, -8, -10, -17, -19, -23, -25,
	2, 5, 9, 12, 19, 22, 26, 29, -2, -5, -9, -12, -19, -22, -26, -29,
	2, 5, 10, 13, 21, 24, 29, 32, -2, -5, -10, -13, -21, -24, -29, -32,
	2, 6, 11, 14, 23, 27, 32, 35, -2, -6, -11, -14, -23, -27, -32, -35,
	3, 6, 12, 15, 25, 28, 34, 37, -3, -6, -12, -15, -25, -28, -34, -37,
	3, 7, 14, 17, 28, 32, 39, 42, -3, -7, -14, -17, -28, -32, -39, -42,
	3, 8, 15, 19, 31, 36, 43, 47, -3, -8, -15, -19, -31, -36, -43, -47,
	4, 8, 17, 21, 34, 38, 47, 51, -4, -8, -17, -21, -34, -38, -47, -51,
	4, 9, 18, 23, 37, 42, 51, 56, -4, -9, -18, -23, -37, -42, -51, -56,
	5, 10, 20, 25, 41, 46, 56, 61, -5, -10, -20, -25, -41, -46, -56, -61,
	5, 11, 22, 28, 45, 51, 62, 68, -5, -11, -22, -28, -45, -51, -62, -68,
	6, 12, 25, 31, 50, 56, 69, 75, -6, -12, -25, -31, -50, -56, -69, -75,
	6, 14, 27, 34, 55, 62, 76, 83, -6, -14, -27, -34, -55, -62, -76, -83,
	7, 15, 30, 37, 60, 67, 82, 90, -7, -15, -30, -37, -60, -67, -82, -90,
	8, 16, 33, 41, 66, 74, 91, 99, -8, -16, -33, -41, -66, -74, -91, -99,
	9, 18, 36, 45, 73, 82, 100, 109, -9, -18, -36, -45, -73, -82, -100, -109,
	10, 20, 40, 50, 80, 90, 110, 120, -10, -20, -40, -50, -80, -90, -110, -120,
	11, 22, 44, 55, 88, 99, 121, 132, -11, -22, -44, -55, -88, -99, -121, -132,
	12, 24, 48, 60, 97, 109, 133, 145, -12, -24, -48, -60, -97, -109, -133, -145,
	13, 27, 53, 67, 107, 121, 147, 161, -13, -27, -53, -67, -107, -121, -147, -161,
	14, 29, 59, 73, 118, 132, 162, 177, -14, -29, -59, -73, -118, -132, -162, -177,
	16, 32, 65, 81, 130, 146, 179, 195, -16, -32, -65, -81, -130, -146, -179, -195,
	17, 36, 71, 89, 143, 161, 196, 214, -17, -36, -71, -89, -143, -161, -196, -214,
	19, 39, 78, 98, 157, 176, 216, 235, -19, -39, -78, -98, -157, -176, -216, -235,
	21, 43, 86, 108, 173, 195, 238, 260, -21, -43, -86, -108, -173, -195, -238, -260,
	23, 48, 95, 119, 190, 214, 261, 285, -23, -48, -95, -119, -190, -214, -261, -285,
	26, 52, 104, 130, 209, 235, 287, 313, -26, -52, -104, -130, -209, -235, -287, -313,
	28, 58, 115, 144, 230, 259, 316, 345, -28, -58, -115, -144, -230, -259, -316, -345,
	31, 63, 126, 158, 253, 285, 348, 380, -31, -63, -126, -158, -253, -285, -348, -380,
	34, 70, 139, 174, 279, 314, 383, 418, -34, -70, -139, -174, -279, -314, -383, -418,
	38, 77, 153, 191, 307, 345, 421, 460, -38, -77, -153, -191, -307, -345, -421, -460,
	42, 84, 168, 210, 337, 379, 463, 505, -42, -84, -168, -210, -337, -379, -463, -505,
	46, 93, 185, 232, 371, 418, 510, 557, -46, -93, -185, -232, -371, -418, -510, -557,
	51, 102, 204, 255, 408, 459, 561, 612, -51, -102, -204, -255, -408, -459, -561, -612,
	56, 112, 224, 280, 449, 505, 617, 673, -56, -112, -224, -280, -449, -505, -617, -673,
	61, 124, 247, 309, 494, 556, 679, 741, -61, -124, -247, -309, -494, -556, -679, -741,
	68, 136, 272, 340, 544, 612, 748, 816, -68, -136, -272, -340, -544, -612, -748, -816,
	74, 150, 299, 374, 598, 673, 822, 897, -74, -150, -299, -374, -598, -673, -822, -897,
	82, 164, 329, 411, 658, 740, 905, 987, -82, -164, -329, -411, -658, -740, -905, -987,
	90, 181, 362, 452, 724, 814, 996, 1086, -90, -181, -362, -452, -724, -814, -996, -1086,
	99, 199, 398, 497, 796, 895, 1094, 1194, -99, -199, -398, -497, -796, -895, -1094, -1194,
	109, 219, 438, 547, 876, 985, 1204, 1314, -109, -219, -438, -547, -876, -985, -1204, -1314,
	120, 240, 481, 601, 963, 1083, 1324, 1444, -120, -240, -481, -601, -963, -1083, -1324, -1444,
	132, 265, 530, 662, 1060, 1192, 1457, 1590, -132, -265, -530, -662, -1060, -1192, -1457, -1590,
	145, 291, 583, 728, 1166, 1311, 1603, 1749, -145, -291, -583, -728, -1166, -1311, -1603, -1749,
	160, 320, 641, 801, 1282, 1442, 1763, 1923, -160, -320, -641, -801, -1282, -1442, -1763, -1923,
	176, 352, 705, 881, 1411, 1587, 1940, 2116, -176, -352, -705, -881, -1411, -1587, -1940, -2116,
	194, 388, 776, 970, 1552, 1746, 2134, 2328, -194, -388, -776, -970, -1552, -1746, -2134, -2328,
	213, 427, 853, 1067, 1707, 1920, 2346, 2560, -213, -427, -853, -1067, -1707, -1920, -2346, -2560,
	234, 469, 939, 1173, 1878, 2112, 2583, 2817, -234, -469, -939, -1173, -1878, -2112, -2583, -2817,
	258, 516, 1033, 1291, 2066, 2324, 2841, 3099, -258, -516, -1033, -1291, -2066, -2324, -2841, -3099,
	284, 568, 1136, 1420, 2272, 2556, 3124, 3408, -284, -568, -1136, -1420, -2272, -2556, -3124, -3408,
	312, 625, 1249, 1562, 2499, 2811, 3436, 3748, -312, -625, -1249, -1562, -2499, -2811, -3436, -3748,
	343, 687, 1374, 1718, 2749, 3093, 3780, 4123, -343, -687, -1374, -1718, -2749, -3093, -3780, -4123,
	378, 756, 1512, 1890, 3024, 3402, 4158, 4536, -378, -756, -1512, -1890, -3024, -3402, -4158, -4536,
	415, 832, 1663, 2079, 3327, 3743, 4575, 4990, -415, -832, -1663, -2079, -3327, -3743, -4575, -4990,
	457, 915, 1830, 2287, 3660, 4117, 5032, 5490, -457, -915, -1830, -2287, -3660, -4117, -5032, -5490,
	503, 1006, 2013, 2516, 4026, 4529, 5536, 6039, -503, -1006, -2013, -2516, -4026, -4529, -5536, -6039,
	553, 1107, 2214, 2767, 4428, 4981, 5535, 6642, -553, -1107, -2214, -2767, -4428, -4981, -5535, -6642,
	608, 1218, 2435, 3044, 4871, 5480, 6088, 7306, -608, -1218, -2435, -3044, -4871, -5480, -6088, -7306,
	669, 1339, 2679, 3348, 5358, 6027, 6697, 8037, -669, -1339, -2679, -3348, -5358, -6027, -6697, -8037,
	736, 1474, 2947, 3683, 5894, 6631, 7367, 8841, -736, -1474, -2947, -3683, -5894, -6631, -7367, -8841,
	810, 1621, 3242, 4052, 6484, 7294, 8105, 9726, -810, -1621, -3242, -4052, -6484, -7294, -8105, -9726,
	891, 1783, 3566, 4457, 7132, 8023, 8915, 10698, -891, -1783, -3566, -4457, -7132, -8023, -8915, -10698,
	980, 1961, 3922, 4903, 7845, 8826, 9807, 11767, -980, -1961, -3922, -4903, -7845, -8826, -9807, -11767,
	1078, 2158, 4315, 5394, 8630, 9709, 10787, 12945, -1078, -2158, -4315, -5394, -8630, -9709, -10787, -12945,
	1186, 2373, 4746, 5933, 9493, 10680, 11866, 14239, -1186, -2373, -4746, -5933, -9493, -10680, -11866, -14239,
	1305, 2610, 5221, 6526, 10442, 11747, 13052, 15663, -1305, -2610, -5221, -6526, -10442, -11747, -13052, -15663,
	1435, 2872, 5743, 7179, 11487, 12922, 14358, 17230, -1435, -2872, -5743, -7179, -11487, -12922, -14358, -17230,
	1579, 3159, 6317, 7896, 12635, 14214, 15793, 18952, -1579, -3159, -6317, -7896, -12635, -14214, -15793, -18952,
	1737, 3475, 6949, 8686, 13899, 15636, 17373, 20848, -1737, -3475, -6949, -8686, -13899, -15636, -17373, -20848,
	1911, 3822, 7644, 9555, 15289, 17200, 19111, 22933, -1911, -3822, -7644, -9555, -15289, -17200, -19111, -22933,
	2102, 4204, 8409, 10511, 16818, 18920, 21022, 25227, -2102, -4204, -8409, -10511, -16818, -18920, -21022, -25227,
	2312, 4625, 9250, 11562, 18500, 20812, 23124, 27750, -2312, -4625, -9250, -11562, -18500, -20812, -23124, -27750,
	2543, 5087, 10175, 12718, 20350, 22893, 25437, 30525, -2543, -5087, -10175, -12718, -20350, -22893, -25437, -30525,
	2798, 5596, 11192, 13990, 22385, 25183, 27981, 32767, -2798, -5596, -11192, -13990, -22385, -25183, -27981, -32767,
	3077, 6156, 12311, 15389, 24623, 27701, 30778, 32767, -3077, -6156, -12311, -15389, -24623, -27701, -30778, -32767,
	3385, 6771, 13543, 16928, 27086, 30471, 32767, 32767, -3385, -6771, -13543, -16928, -27086, -30471, -32767, -32767,
	3724, 7449, 14897, 18621, 29794, 32767, 32767, 32767, -3724, -7449, -14897, -18621, -29794, -32767, -32767, -32767,
	4095, 8191, 16383, 20479, 32767, 32767, 32767, 32767, -4095, -8191, -16383, -20479, -32767, -32767, -32767, -32767,
}

// 2-bit delta table, indexed step_index + code. The initializer carries
// 352 values; the tail up to index 355 stays zero, and lookups clamp to 352.
var adpcm2DeltaTable = [356]int16{
	3, 10, -3, -10, 4, 12, -4, -12,
	4, 13, -4, -13, 5, 15, -5, -15,
	5, 16, -5, -16, 6, 18, -6, -18,
	6, 19, -6, -19, 7, 21, -7, -21,
	8, 24, -8, -24, 8, 25, -8, -25,
	9, 28, -9, -28, 10, 31, -10, -31,
	11, 34, -11, -34, 12, 37, -12, -37,
	14, 42, -14, -42, 15, 46, -15, -46,
	17, 51, -17, -51, 18, 55, -18, -55,
	20, 61, -20, -61, 22, 67, -22, -67,
	25, 75, -25, -75, 27, 82, -27, -82,
	30, 90, -30, -90, 33, 99, -33, -99,
	36, 109, -36, -109, 40, 120, -40, -120,
	44, 132, -44, -132, 48, 145, -48, -145,
	53, 160, -53, -160, 59, 177, -59, -177,
	65, 195, -65, -195, 71, 214, -71, -214,
	78, 235, -78, -235, 86, 259, -86, -259,
	95, 285, -95, -285, 104, 313, -104, -313,
	115, 345, -115, -345, 126, 379, -126, -379,
	139, 418, -139, -418, 153, 460, -153, -460,
	168, 505, -168, -505, 185, 556, -185, -556,
	204, 612, -204, -612, 224, 673, -224, -673,
	247, 741, -247, -741, 272, 816, -272, -816,
	299, 897, -299, -897, 329, 987, -329, -987,
	362, 1086, -362, -1086, 398, 1194, -398, -1194,
	438, 1314, -438, -1314, 481, 1444, -481, -1444,
	530, 1590, -530, -1590, 583, 1749, -583, -1749,
	641, 1923, -641, -1923, 705, 2116, -705, -2116,
	776, 2328, -776, -2328, 853, 2560, -853, -2560,
	939, 2817, -939, -2817, 1033, 3099, -1033, -3099,
	1136, 3408, -1136, -3408, 1249, 3748, -1249, -3748,
	1374, 4123, -1374, -4123, 1512, 4536, -1512, -4536,
	1663, 4990, -1663, -4990, 1830, 5490, -1830, -5490,
	2013, 6039, -2013, -6039, 2214, 6642, -2214, -6642,
	2435, 7306, -2435, -7306, 2679, 8037, -2679, -8037,
	2947, 8841, -2947, -8841, 3242, 9726, -3242, -9726,
	3566, 10698, -3566, -10698, 3922, 11767, -3922, -11767,
	4315, 12945, -4315, -12945, 4746, 14239, -4746, -14239,
	5221, 15663, -5221, -15663, 5743, 17230, -5743, -17230,
	6317, 18952, -6317, -18952, 6949, 20848, -6949, -20848,
	7644, 22933, -7644, -22933, 8409, 25227, -8409, -25227,
	9250, 27750, -9250, -27750, 10175, 30525, -10175, -30525,
	11179, -31999, -11179, 31999, 12316, -28587, -12316, 28587,
	13543, -24907, -13543, 24907, 14897, -20845, -14897, 20845,
}
