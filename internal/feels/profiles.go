package feels

import "sort"

// genreProfiles maps genre keywords to representative feature vectors.
// A profile applies when its key appears as a substring of a track's joined
// genre tag string, so "heavy metal" picks up both the "metal" and
// "heavy metal" entries. Built once at init and never mutated; treat as
// read-only.
var genreProfiles = map[string]FeatureVector{
	// Metal and heavier rock
	"metal":       {Energy: 0.95, Tempo: 140, Danceability: 0.50, Loudness: -6, Valence: 0.45, Acousticness: 0.05},
	"heavy metal": {Energy: 0.95, Tempo: 135, Danceability: 0.45, Loudness: -6, Valence: 0.40, Acousticness: 0.05},
	"death metal": {Energy: 0.98, Tempo: 160, Danceability: 0.40, Loudness: -5, Valence: 0.25, Acousticness: 0.02},
	"black metal": {Energy: 0.95, Tempo: 155, Danceability: 0.35, Loudness: -6, Valence: 0.20, Acousticness: 0.05},
	"metalcore":   {Energy: 0.95, Tempo: 150, Danceability: 0.45, Loudness: -6, Valence: 0.35, Acousticness: 0.05},
	"hard rock":   {Energy: 0.90, Tempo: 130, Danceability: 0.50, Loudness: -7, Valence: 0.50, Acousticness: 0.10},
	"punk":        {Energy: 0.90, Tempo: 165, Danceability: 0.50, Loudness: -7, Valence: 0.55, Acousticness: 0.10},
	"grunge":      {Energy: 0.80, Tempo: 120, Danceability: 0.50, Loudness: -8, Valence: 0.40, Acousticness: 0.15},
	"emo":         {Energy: 0.75, Tempo: 120, Danceability: 0.50, Loudness: -8, Valence: 0.35, Acousticness: 0.20},

	// Rock and adjacent
	"rock":        {Energy: 0.80, Tempo: 125, Danceability: 0.55, Loudness: -8, Valence: 0.55, Acousticness: 0.15},
	"alternative": {Energy: 0.70, Tempo: 120, Danceability: 0.55, Loudness: -9, Valence: 0.50, Acousticness: 0.20},
	"indie":       {Energy: 0.65, Tempo: 115, Danceability: 0.60, Loudness: -10, Valence: 0.55, Acousticness: 0.30},
	"shoegaze":    {Energy: 0.65, Tempo: 115, Danceability: 0.45, Loudness: -9, Valence: 0.40, Acousticness: 0.20},
	"post-rock":   {Energy: 0.60, Tempo: 110, Danceability: 0.40, Loudness: -10, Valence: 0.40, Acousticness: 0.30},
	"progressive": {Energy: 0.70, Tempo: 125, Danceability: 0.50, Loudness: -9, Valence: 0.50, Acousticness: 0.20},
	"psychedelic": {Energy: 0.60, Tempo: 110, Danceability: 0.50, Loudness: -10, Valence: 0.50, Acousticness: 0.30},

	// Pop
	"pop":               {Energy: 0.70, Tempo: 118, Danceability: 0.70, Loudness: -9, Valence: 0.65, Acousticness: 0.20},
	"k-pop":             {Energy: 0.80, Tempo: 122, Danceability: 0.75, Loudness: -7, Valence: 0.70, Acousticness: 0.10},
	"j-pop":             {Energy: 0.75, Tempo: 125, Danceability: 0.70, Loudness: -8, Valence: 0.70, Acousticness: 0.15},
	"synth-pop":         {Energy: 0.70, Tempo: 118, Danceability: 0.75, Loudness: -9, Valence: 0.65, Acousticness: 0.05},
	"singer-songwriter": {Energy: 0.40, Tempo: 100, Danceability: 0.50, Loudness: -13, Valence: 0.50, Acousticness: 0.75},

	// Electronic
	"electronic":    {Energy: 0.80, Tempo: 125, Danceability: 0.75, Loudness: -8, Valence: 0.55, Acousticness: 0.05},
	"edm":           {Energy: 0.90, Tempo: 128, Danceability: 0.85, Loudness: -6, Valence: 0.70, Acousticness: 0.03},
	"dance":         {Energy: 0.85, Tempo: 125, Danceability: 0.85, Loudness: -7, Valence: 0.75, Acousticness: 0.05},
	"house":         {Energy: 0.85, Tempo: 124, Danceability: 0.90, Loudness: -7, Valence: 0.70, Acousticness: 0.05},
	"deep house":    {Energy: 0.75, Tempo: 122, Danceability: 0.85, Loudness: -9, Valence: 0.60, Acousticness: 0.05},
	"techno":        {Energy: 0.90, Tempo: 130, Danceability: 0.85, Loudness: -7, Valence: 0.50, Acousticness: 0.02},
	"trance":        {Energy: 0.85, Tempo: 138, Danceability: 0.75, Loudness: -7, Valence: 0.60, Acousticness: 0.03},
	"dubstep":       {Energy: 0.90, Tempo: 140, Danceability: 0.70, Loudness: -5, Valence: 0.40, Acousticness: 0.02},
	"drum and bass": {Energy: 0.95, Tempo: 174, Danceability: 0.70, Loudness: -6, Valence: 0.50, Acousticness: 0.02},
	"hardstyle":     {Energy: 0.98, Tempo: 150, Danceability: 0.75, Loudness: -5, Valence: 0.55, Acousticness: 0.02},
	"electro":       {Energy: 0.85, Tempo: 128, Danceability: 0.80, Loudness: -7, Valence: 0.60, Acousticness: 0.05},
	"synthwave":     {Energy: 0.70, Tempo: 110, Danceability: 0.70, Loudness: -9, Valence: 0.55, Acousticness: 0.05},
	"vaporwave":     {Energy: 0.40, Tempo: 85, Danceability: 0.55, Loudness: -14, Valence: 0.45, Acousticness: 0.20},

	// Downtempo and quiet
	"lo-fi":      {Energy: 0.30, Tempo: 80, Danceability: 0.55, Loudness: -16, Valence: 0.45, Acousticness: 0.50},
	"chillout":   {Energy: 0.35, Tempo: 90, Danceability: 0.50, Loudness: -14, Valence: 0.50, Acousticness: 0.40},
	"downtempo":  {Energy: 0.40, Tempo: 90, Danceability: 0.55, Loudness: -13, Valence: 0.45, Acousticness: 0.35},
	"trip hop":   {Energy: 0.50, Tempo: 95, Danceability: 0.60, Loudness: -11, Valence: 0.40, Acousticness: 0.30},
	"ambient":    {Energy: 0.20, Tempo: 75, Danceability: 0.30, Loudness: -18, Valence: 0.40, Acousticness: 0.60},
	"new age":    {Energy: 0.20, Tempo: 80, Danceability: 0.30, Loudness: -17, Valence: 0.50, Acousticness: 0.70},
	"meditation": {Energy: 0.10, Tempo: 65, Danceability: 0.20, Loudness: -22, Valence: 0.45, Acousticness: 0.80},

	// Hip hop
	"hip hop": {Energy: 0.75, Tempo: 95, Danceability: 0.80, Loudness: -7, Valence: 0.60, Acousticness: 0.10},
	"rap":     {Energy: 0.75, Tempo: 98, Danceability: 0.80, Loudness: -7, Valence: 0.55, Acousticness: 0.10},
	"trap":    {Energy: 0.80, Tempo: 140, Danceability: 0.75, Loudness: -6, Valence: 0.45, Acousticness: 0.05},
	"drill":   {Energy: 0.80, Tempo: 142, Danceability: 0.75, Loudness: -6, Valence: 0.35, Acousticness: 0.05},
	"grime":   {Energy: 0.85, Tempo: 140, Danceability: 0.70, Loudness: -6, Valence: 0.45, Acousticness: 0.05},
	"phonk":   {Energy: 0.85, Tempo: 130, Danceability: 0.75, Loudness: -6, Valence: 0.40, Acousticness: 0.05},

	// Soul, funk, disco
	"r&b":   {Energy: 0.60, Tempo: 100, Danceability: 0.70, Loudness: -9, Valence: 0.60, Acousticness: 0.25},
	"soul":  {Energy: 0.60, Tempo: 105, Danceability: 0.65, Loudness: -9, Valence: 0.65, Acousticness: 0.35},
	"funk":  {Energy: 0.80, Tempo: 112, Danceability: 0.85, Loudness: -8, Valence: 0.80, Acousticness: 0.20},
	"disco": {Energy: 0.80, Tempo: 118, Danceability: 0.85, Loudness: -8, Valence: 0.80, Acousticness: 0.15},

	// Jazz, blues, swing
	"jazz":  {Energy: 0.45, Tempo: 110, Danceability: 0.55, Loudness: -13, Valence: 0.60, Acousticness: 0.70},
	"blues": {Energy: 0.50, Tempo: 100, Danceability: 0.55, Loudness: -11, Valence: 0.45, Acousticness: 0.60},
	"swing": {Energy: 0.60, Tempo: 130, Danceability: 0.70, Loudness: -10, Valence: 0.75, Acousticness: 0.60},

	// Roots and acoustic
	"country":   {Energy: 0.60, Tempo: 115, Danceability: 0.60, Loudness: -10, Valence: 0.60, Acousticness: 0.45},
	"bluegrass": {Energy: 0.65, Tempo: 130, Danceability: 0.60, Loudness: -10, Valence: 0.65, Acousticness: 0.80},
	"folk":      {Energy: 0.40, Tempo: 100, Danceability: 0.50, Loudness: -13, Valence: 0.50, Acousticness: 0.80},
	"acoustic":  {Energy: 0.35, Tempo: 95, Danceability: 0.50, Loudness: -14, Valence: 0.55, Acousticness: 0.90},

	// Classical
	"classical":  {Energy: 0.25, Tempo: 90, Danceability: 0.25, Loudness: -18, Valence: 0.40, Acousticness: 0.95},
	"opera":      {Energy: 0.40, Tempo: 95, Danceability: 0.25, Loudness: -14, Valence: 0.40, Acousticness: 0.90},
	"orchestral": {Energy: 0.45, Tempo: 100, Danceability: 0.30, Loudness: -14, Valence: 0.45, Acousticness: 0.90},
	"soundtrack": {Energy: 0.50, Tempo: 105, Danceability: 0.40, Loudness: -12, Valence: 0.45, Acousticness: 0.60},

	// Caribbean, Latin, African
	"reggae":    {Energy: 0.60, Tempo: 90, Danceability: 0.75, Loudness: -9, Valence: 0.75, Acousticness: 0.30},
	"ska":       {Energy: 0.80, Tempo: 140, Danceability: 0.70, Loudness: -8, Valence: 0.80, Acousticness: 0.20},
	"dancehall": {Energy: 0.80, Tempo: 100, Danceability: 0.85, Loudness: -7, Valence: 0.75, Acousticness: 0.10},
	"latin":     {Energy: 0.75, Tempo: 105, Danceability: 0.85, Loudness: -8, Valence: 0.80, Acousticness: 0.25},
	"salsa":     {Energy: 0.80, Tempo: 180, Danceability: 0.85, Loudness: -8, Valence: 0.85, Acousticness: 0.40},
	"reggaeton": {Energy: 0.80, Tempo: 96, Danceability: 0.90, Loudness: -6, Valence: 0.75, Acousticness: 0.10},
	"afrobeat":  {Energy: 0.75, Tempo: 110, Danceability: 0.85, Loudness: -8, Valence: 0.80, Acousticness: 0.25},

	// Everything else
	"gospel": {Energy: 0.55, Tempo: 100, Danceability: 0.55, Loudness: -10, Valence: 0.75, Acousticness: 0.50},
	"world":  {Energy: 0.55, Tempo: 105, Danceability: 0.60, Loudness: -11, Valence: 0.60, Acousticness: 0.50},
}

// defaultProfileKey is used when no genre profile matches a track's tags.
const defaultProfileKey = "pop"

// Canned vectors for the untagged fallback tiers.
var (
	classicalLikeVector  = genreProfiles["classical"]
	electronicLikeVector = genreProfiles["electronic"]
	neutralVector        = FeatureVector{Energy: 0.5, Tempo: 120, Danceability: 0.5, Loudness: -10, Valence: 0.5, Acousticness: 0.3}
)

// profileKeysSorted is computed once; the table is never mutated after init.
var profileKeysSorted = func() []string {
	keys := make([]string, 0, len(genreProfiles))
	for k := range genreProfiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}()

// profileKeys returns the profile table keys in sorted order.
func profileKeys() []string {
	return profileKeysSorted
}

// ProfileCount reports the number of genre profiles in the static table.
func ProfileCount() int {
	return len(genreProfiles)
}

// ProfileFor returns the feature vector for an exact profile key.
func ProfileFor(genre string) (FeatureVector, bool) {
	v, ok := genreProfiles[genre]
	return v, ok
}
