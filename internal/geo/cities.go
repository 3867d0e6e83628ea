package geo

// City is a named reference point.
type City struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// DefaultRadiusKm is how far from a city centre a reading still counts as that city.
const DefaultRadiusKm = 50.0

// Cities is the bundled reference table: Colombian department capitals and
// other large municipalities.
var Cities = []City{
	{"Bogotá", 4.7110, -74.0721},
	{"Medellín", 6.2442, -75.5812},
	{"Cali", 3.4516, -76.5320},
	{"Barranquilla", 10.9685, -74.7813},
	{"Cartagena", 10.3910, -75.4794},
	{"Cúcuta", 7.8939, -72.5078},
	{"Bucaramanga", 7.1193, -73.1227},
	{"Pereira", 4.8133, -75.6961},
	{"Santa Marta", 11.2408, -74.1990},
	{"Ibagué", 4.4389, -75.2322},
	{"Manizales", 5.0703, -75.5138},
	{"Villavicencio", 4.1420, -73.6266},
	{"Pasto", 1.2136, -77.2811},
	{"Montería", 8.7479, -75.8814},
	{"Neiva", 2.9273, -75.2819},
	{"Armenia", 4.5339, -75.6811},
	{"Popayán", 2.4448, -76.6147},
	{"Valledupar", 10.4631, -73.2532},
	{"Sincelejo", 9.3047, -75.3978},
	{"Tunja", 5.5353, -73.3678},
	{"Riohacha", 11.5444, -72.9072},
	{"Quibdó", 5.6947, -76.6611},
	{"Florencia", 1.6144, -75.6062},
	{"Yopal", 5.3378, -72.3959},
	{"Arauca", 7.0903, -70.7617},
	{"Mocoa", 1.1462, -76.6461},
	{"San Andrés", 12.5847, -81.7006},
	{"Leticia", -4.2153, -69.9406},
	{"San José del Guaviare", 2.5729, -72.6459},
	{"Mitú", 1.2538, -70.2345},
	{"Puerto Carreño", 6.1890, -67.4859},
	{"Inírida", 3.8653, -67.9239},
	{"Soacha", 4.5794, -74.2168},
	{"Bello", 6.3373, -75.5579},
	{"Buenaventura", 3.8801, -77.0312},
	{"Palmira", 3.5394, -76.3036},
	{"Barrancabermeja", 7.0653, -73.8547},
	{"Tuluá", 4.0847, -76.1954},
	{"Girardot", 4.3032, -74.8036},
	{"Apartadó", 7.8826, -76.6253},
}
