package scanner

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msfs_hangar/internal/extract"
	"msfs_hangar/internal/models"
	"msfs_hangar/internal/reference"
)

const referenceCSV = `icao,name,city,country,latitude,longitude
LFPG,LFPG Paris Charles de Gaulle,Paris,France,49.0097,2.5479
LFPO,Paris-Orly,Paris,France,48.7233,2.3794
KLAX,Los Angeles Intl,Los Angeles,United States,33.9425,-118.4081
`

func writeFile(t *testing.T, fsys afero.Fs, path, body string) {
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(body), 0o644))
}

func loadReference(t *testing.T) reference.Airports {
	airports, err := reference.ReadAirports(strings.NewReader(referenceCSV))
	require.NoError(t, err)
	return airports
}

func airportTree(t *testing.T) afero.Fs {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/Community/LFPG", 0o755))
	writeFile(t, fsys, "/Community/fs24-microsoft-airport-klax-losangeles/manifest.json",
		`{"title": "fs24-microsoft-airport-klax-losangeles", "content_type": "SCENERY"}`)
	writeFile(t, fsys, "/Community/flytampa-amsterdam/manifest.json",
		`{"title": "Amsterdam", "creator": "FlyTampa", "content_type": "SCENERY"}`)
	writeFile(t, fsys, "/Community/myvendor-airport-lfpg-paris/manifest.json",
		`{"title": "Paris CDG v2", "content_type": "SCENERY"}`)
	writeFile(t, fsys, "/Community/vendor-airport-bundle/scenery/LFPO.bgl", "\x01\x02")
	writeFile(t, fsys, "/Community/asobo-landmarks-paris/manifest.json", `{"title": "LFPG tower"}`)
	writeFile(t, fsys, "/Community/fnx-aircraft-320-liveries/manifest.json",
		`{"title": "Fenix A320 liveries", "content_type": "LIVERY"}`)
	writeFile(t, fsys, "/Community/readme.txt", "not a package")
	require.NoError(t, fsys.MkdirAll("/Official/OneStore/microsoft-airport-egll-heathrow", 0o755))
	return fsys
}

func newAirportScanner(t *testing.T, fsys afero.Fs) *AirportScanner {
	bgl, err := extract.NewBGLScanner(3, 64)
	require.NoError(t, err)
	rules := []models.CustomMappingRule{{Creator: "flytampa", Title: "amsterdam", ICAO: "EHAM"}}
	return NewAirportScanner(fsys, loadReference(t), rules, bgl)
}

var testRoots = map[models.Source]string{
	models.SourceCommunity: "/Community",
	models.SourceOfficial:  "/Official/OneStore",
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		icao, name, want string
	}{
		{"LFPG", "LFPG Paris Charles de Gaulle", "Paris Charles de Gaulle"},
		{"LFPG", "lfpg - Paris Charles de Gaulle", "Paris Charles de Gaulle"},
		{"LFPO", "Paris-Orly", "Paris-Orly"},
		{"LFPG", "LFPGX Airfield", "LFPGX Airfield"},
		{"KLAX", "KLAX", "KLAX"},
		{"KLAX", "", "KLAX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanName(tt.icao, tt.name))
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "LFPG – Paris Charles de Gaulle", Label("LFPG", "LFPG Paris Charles de Gaulle"))
	assert.Equal(t, "LFPO – Paris-Orly", Label("LFPO", "Paris-Orly"))
	assert.Equal(t, "KLAX", Label("KLAX", ""))
}

func TestAirportScanner_Scan(t *testing.T) {
	fsys := airportTree(t)
	res := newAirportScanner(t, fsys).Scan(testRoots)

	var codes []string
	byICAO := make(map[string]models.AirportRecord)
	for _, a := range res.Airports {
		codes = append(codes, a.ICAO)
		byICAO[a.ICAO] = a
	}
	assert.Equal(t, []string{"LFPG", "EHAM", "KLAX", "LFPO", "EGLL"}, codes)

	lfpg := byICAO["LFPG"]
	assert.Equal(t, "Paris Charles de Gaulle", lfpg.Name)
	assert.Equal(t, "/Community/LFPG", lfpg.Path)
	assert.Equal(t, models.SourceCommunity, lfpg.Source)
	require.NotNil(t, lfpg.Latitude)
	assert.InDelta(t, 49.0097, *lfpg.Latitude, 1e-9)

	eham := byICAO["EHAM"]
	assert.Equal(t, "Amsterdam", eham.Name)
	assert.Nil(t, eham.Latitude)

	assert.Equal(t, "Los Angeles Intl", byICAO["KLAX"].Name)
	assert.Equal(t, "Paris-Orly", byICAO["LFPO"].Name)

	egll := byICAO["EGLL"]
	assert.Equal(t, models.SourceOfficial, egll.Source)
	assert.Equal(t, "microsoft-airport-egll-heathrow", egll.Name)

	reasons := make(map[string]string)
	for _, ig := range res.Ignored {
		reasons[ig.Folder] = ig.Reason
	}
	assert.Equal(t, "duplicate of /Community/LFPG", reasons["myvendor-airport-lfpg-paris"])
	assert.Equal(t, "blacklisted: landmark", reasons["asobo-landmarks-paris"])
	assert.Equal(t, "blacklisted: liveries", reasons["fnx-aircraft-320-liveries"])
	assert.NotContains(t, reasons, "readme.txt")
}

func TestAirportScanner_OneRecordPerICAO(t *testing.T) {
	fsys := airportTree(t)
	writeFile(t, fsys, "/Official/OneStore/fs24-asobo-airport-klax/manifest.json", `{"title": "KLAX"}`)

	res := newAirportScanner(t, fsys).Scan(testRoots)

	count := make(map[string]int)
	for _, a := range res.Airports {
		count[a.ICAO]++
	}
	for icao, n := range count {
		assert.Equal(t, 1, n, icao)
	}
	assert.Equal(t, "/Community/fs24-microsoft-airport-klax-losangeles", findAirport(res, "KLAX").Path)
}

func TestAirportScanner_Idempotent(t *testing.T) {
	fsys := airportTree(t)
	s := newAirportScanner(t, fsys)

	first, err := json.Marshal(s.Scan(testRoots).Airports)
	require.NoError(t, err)
	second, err := json.Marshal(s.Scan(testRoots).Airports)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestAirportScanner_StrategyOrder(t *testing.T) {
	var calls []extract.Stage
	stage := func(name extract.Stage, icao string) Strategy {
		return Strategy{Stage: name, Resolve: func(string) extract.Result {
			calls = append(calls, name)
			if icao == "" {
				return extract.NotFound
			}
			return extract.Found(icao, "", name)
		}}
	}

	s := NewAirportScanner(afero.NewMemMapFs(), nil, nil, nil).WithStrategies(
		stage(extract.StageManifest, ""),
		stage(extract.StageCustomMapping, ""),
		stage(extract.StageContentHistory, "LFMN"),
		stage(extract.StageBGL, "KLAX"),
	)

	r := s.Resolve("/pkg")
	assert.Equal(t, "LFMN", r.ICAO)
	assert.Equal(t, extract.StageContentHistory, r.Stage)
	assert.Equal(t, []extract.Stage{extract.StageManifest, extract.StageCustomMapping, extract.StageContentHistory}, calls)
}

func TestAirportScanner_ResolveSkipsInvalidCode(t *testing.T) {
	s := NewAirportScanner(afero.NewMemMapFs(), nil, nil, nil).WithStrategies(
		Strategy{Stage: extract.StageManifest, Resolve: func(string) extract.Result {
			return extract.Found("K1A", "", extract.StageManifest)
		}},
		Strategy{Stage: extract.StageBGL, Resolve: func(string) extract.Result {
			return extract.Found("LFPO", "", extract.StageBGL)
		}},
	)

	r := s.Resolve("/pkg")
	assert.Equal(t, "LFPO", r.ICAO)
	assert.Equal(t, extract.StageBGL, r.Stage)
}

func TestAirportScanner_ShortIdentBGL(t *testing.T) {
	airports, err := reference.ReadAirports(strings.NewReader("ident,name\nK1A,Short Strip\nLFPO,Paris-Orly\n"))
	require.NoError(t, err)

	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/Community/regional-airport-bundle/objects/K1A_objects.bgl", "xx LFPO yy")

	bgl, err := extract.NewBGLScanner(3, 16)
	require.NoError(t, err)

	res := NewAirportScanner(fsys, airports, nil, bgl).Scan(map[models.Source]string{models.SourceCommunity: "/Community"})
	require.Len(t, res.Airports, 1)
	assert.Equal(t, "LFPO", res.Airports[0].ICAO)
	assert.Equal(t, "Paris-Orly", res.Airports[0].Name)
	assert.Empty(t, res.Ignored)
}

func TestAirportScanner_EmptyReference(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/Community/KJFK", 0o755))

	res := NewAirportScanner(fsys, nil, nil, nil).Scan(map[models.Source]string{models.SourceCommunity: "/Community"})
	require.Len(t, res.Airports, 1)
	assert.Equal(t, "KJFK", res.Airports[0].ICAO)
	assert.Equal(t, "KJFK", res.Airports[0].Name)
}

func TestAirportScanner_MissingRoot(t *testing.T) {
	res := NewAirportScanner(afero.NewMemMapFs(), nil, nil, nil).Scan(map[models.Source]string{models.SourceCommunity: "/nope"})
	assert.Empty(t, res.Airports)
	assert.Empty(t, res.Ignored)
}

func findAirport(res AirportScan, icao string) models.AirportRecord {
	for _, a := range res.Airports {
		if a.ICAO == icao {
			return a
		}
	}
	return models.AirportRecord{}
}

func writeLivery(t *testing.T, fsys afero.Fs, pkg, livery, cfg string) {
	writeFile(t, fsys, filepath.Join("/Community", pkg, "SimObjects", "Airplanes", livery, "aircraft.cfg"), cfg)
}

func liveryTree(t *testing.T) afero.Fs {
	fsys := afero.NewMemMapFs()
	writeLivery(t, fsys, "fnx-aircraft-320-liveries", "FNX_320_AFR_CFM", "[FLTSIM.0]\natc_id=F-HBNK\natc_airline=Air France\nicao_airline=AFR\ntitle=A320neo\n")
	writeLivery(t, fsys, "fnx-aircraft-320-liveries", "FNX_320_AFR_CFM_2", "[FLTSIM.0]\natc_id=F-HBNK\natc_airline=Air France\nicao_airline=AFR\ntitle=A320neo\n")
	writeLivery(t, fsys, "fnx-aircraft-320-liveries", "FNX_320_HOUSE", "[FLTSIM.0]\natc_id=G-FENX\natc_airline=Fenix\ntitle=Fenix A320\n")
	writeLivery(t, fsys, "fnx-aircraft-321-liveries", "FNX_321_EZY_IAE", "[FLTSIM.0]\natc_id=GEZAA\nicao_airline=EZY\ntitle=Fenix Simulations livery\n")
	writeLivery(t, fsys, "fnx-aircraft-321-liveries", "FNX_321_NOREG", "[FLTSIM.0]\natc_airline=Nobody\ntitle=A321\n")
	writeLivery(t, fsys, "fnx-aircraft-319-stock-liveries", "FNX_319_DEMO", "[FLTSIM.0]\natc_id=D-ABCD\natc_airline=Demo\ntitle=A319\n")
	require.NoError(t, fsys.MkdirAll("/Community/pmdg-aircraft-737", 0o755))
	require.NoError(t, fsys.MkdirAll("/Community/LFPG", 0o755))
	return fsys
}

func testAirlines() reference.Airlines {
	return reference.Airlines{
		"AFR": {ICAO: "AFR", Name: "Air France", Callsign: "AIRFRANS", IATA: "AF"},
		"EZY": {ICAO: "EZY", Name: "easyJet", Callsign: "EASY", IATA: "U2"},
	}
}

func TestAircraftScanner_Scan(t *testing.T) {
	fsys := liveryTree(t)
	res := NewAircraftScanner(fsys, testAirlines()).Scan(map[models.Source]string{models.SourceCommunity: "/Community"})

	require.Len(t, res.Aircraft, 3)

	afr := res.Aircraft[0]
	assert.Equal(t, models.ModelA320, afr.Model)
	assert.Equal(t, "F-HBNK", afr.Registration)
	assert.Equal(t, "Air France", afr.Company)
	assert.Equal(t, "AFR", afr.ICAO)
	assert.Equal(t, models.EngineCFM, afr.EngineType)
	assert.Equal(t, "AIRFRANS", afr.Callsign)
	assert.Equal(t, "/Community/fnx-aircraft-320-liveries/SimObjects/Airplanes/FNX_320_AFR_CFM", afr.Path)

	// liveries sharing a registration are kept
	assert.Equal(t, "F-HBNK", res.Aircraft[1].Registration)

	ezy := res.Aircraft[2]
	assert.Equal(t, models.ModelA321, ezy.Model, "model comes from the package name when the title lacks it")
	assert.Equal(t, "G-EZAA", ezy.Registration)
	assert.Equal(t, "easyJet", ezy.Company)
	assert.Equal(t, models.EngineIAE, ezy.EngineType)

	for _, a := range res.Aircraft {
		assert.NotEqual(t, "G-FENX", a.Registration)
		assert.NotEqual(t, "D-ABCD", a.Registration)
	}

	reasons := make(map[string]string)
	for _, ig := range res.Ignored {
		reasons[ig.Folder] = ig.Reason
	}
	assert.Equal(t, "no SimObjects/Airplanes", reasons["pmdg-aircraft-737"])

	var pkgs []string
	for _, p := range res.Packages {
		pkgs = append(pkgs, p.Name)
	}
	assert.Equal(t, []string{"fnx-aircraft-320-liveries", "fnx-aircraft-321-liveries"}, pkgs,
		"a package whose liveries are all excluded is not reported as scanned")
	assert.NotContains(t, reasons, "LFPG")
}

func TestExclusions_Match(t *testing.T) {
	tests := []struct {
		name     string
		rec      models.AircraftRecord
		excluded bool
	}{
		{
			name:     "fenix house livery",
			rec:      models.AircraftRecord{Company: "Fenix", Registration: "G-FENX", ICAO: "BAW"},
			excluded: true,
		},
		{
			name:     "stock registration with airline company",
			rec:      models.AircraftRecord{Company: "British Airways", Registration: "g-fenx"},
			excluded: true,
		},
		{
			name:     "asobo package path",
			rec:      models.AircraftRecord{Company: "Lufthansa", Registration: "D-AINA", Path: `C:\Official\OneStore\asobo-aircraft-a320-neo\SimObjects\Airplanes\x`},
			excluded: true,
		},
		{
			name:     "airline livery",
			rec:      models.AircraftRecord{Company: "Air France", Registration: "F-HBNK", Path: "/Community/fnx-aircraft-320-liveries/SimObjects/Airplanes/afr"},
			excluded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason := DefaultExclusions.Match(tt.rec)
			if tt.excluded {
				assert.NotEmpty(t, reason)
			} else {
				assert.Empty(t, reason)
			}
		})
	}
}

func TestNormalizeRegistration(t *testing.T) {
	tests := []struct {
		airline, reg, want string
	}{
		{"EZY", "gezaa", "G-EZAA"},
		{"EZS", "HBJXA", "HB-JXA"},
		{"EJU", "OEIVA", "OE-IVA"},
		{"AFR", "FHBNK", "F-HBNK"},
		{"AFR", " F-HBNK ", "F-HBNK"},
		{"BAW", "N12345", "N12345"},
	}

	for _, tt := range tests {
		t.Run(tt.reg, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRegistration(tt.airline, tt.reg, DefaultRegistrationRules))
		})
	}
}
