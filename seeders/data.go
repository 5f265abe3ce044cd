package seeders

type floorSeed struct {
	Name     string
	Building string
	Level    int
	Zones    []zoneSeed
}

type zoneSeed struct {
	Name  string
	Rooms []roomSeed
}

type roomSeed struct {
	Name     string
	RoomType string
}

type staffSeed struct {
	EmployeeCode string
	FullName     string
	Role         string
	Phone        string
	Password     string
	FloorName    string
}

type equipmentSeed struct {
	Code         string
	Type         string
	BatteryLevel int
	FloorName    string
}

var floorSeeds = []floorSeed{
	{
		Name: "Ground Floor", Building: "Main", Level: 0,
		Zones: []zoneSeed{
			{Name: "Emergency", Rooms: []roomSeed{
				{Name: "ER-1", RoomType: "treatment"},
				{Name: "ER-2", RoomType: "treatment"},
				{Name: "Triage", RoomType: "triage"},
			}},
			{Name: "Radiology", Rooms: []roomSeed{
				{Name: "X-Ray 1", RoomType: "imaging"},
				{Name: "CT Suite", RoomType: "imaging"},
			}},
		},
	},
	{
		Name: "First Floor", Building: "Main", Level: 1,
		Zones: []zoneSeed{
			{Name: "Ward A", Rooms: []roomSeed{
				{Name: "A-101", RoomType: "ward"},
				{Name: "A-102", RoomType: "ward"},
				{Name: "A-103", RoomType: "ward"},
			}},
			{Name: "Surgery", Rooms: []roomSeed{
				{Name: "OR-1", RoomType: "operating"},
				{Name: "Recovery", RoomType: "recovery"},
			}},
		},
	},
	{
		Name: "Second Floor", Building: "Main", Level: 2,
		Zones: []zoneSeed{
			{Name: "Ward B", Rooms: []roomSeed{
				{Name: "B-201", RoomType: "ward"},
				{Name: "B-202", RoomType: "ward"},
			}},
		},
	},
}

var staffSeeds = []staffSeed{
	{EmployeeCode: "ADM001", FullName: "Maria Santos", Role: "admin", Phone: "+1-555-0100", Password: "Admin123!", FloorName: "Ground Floor"},
	{EmployeeCode: "NUR001", FullName: "James Okafor", Role: "nurse", Phone: "+1-555-0101", Password: "Nurse123!", FloorName: "First Floor"},
	{EmployeeCode: "NUR002", FullName: "Lena Fischer", Role: "nurse", Phone: "+1-555-0102", Password: "Nurse123!", FloorName: "Second Floor"},
	{EmployeeCode: "POR001", FullName: "Daniel Reyes", Role: "porter", Phone: "+1-555-0103", Password: "Porter123!", FloorName: "Ground Floor"},
	{EmployeeCode: "POR002", FullName: "Aisha Mwangi", Role: "porter", Phone: "+1-555-0104", Password: "Porter123!", FloorName: "First Floor"},
}

var equipmentSeeds = []equipmentSeed{
	{Code: "WC-001", Type: "wheelchair", BatteryLevel: 100, FloorName: "Ground Floor"},
	{Code: "WC-002", Type: "wheelchair", BatteryLevel: 85, FloorName: "Ground Floor"},
	{Code: "WC-003", Type: "wheelchair", BatteryLevel: 60, FloorName: "First Floor"},
	{Code: "WC-004", Type: "wheelchair", BatteryLevel: 95, FloorName: "Second Floor"},
	{Code: "BED-001", Type: "bed", BatteryLevel: 100, FloorName: "Ground Floor"},
	{Code: "BED-002", Type: "bed", BatteryLevel: 70, FloorName: "First Floor"},
	{Code: "BED-003", Type: "bed", BatteryLevel: 40, FloorName: "Second Floor"},
}
