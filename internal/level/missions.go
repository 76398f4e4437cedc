package level

import (
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// Map-properties keys. Mission keys are prefixed by the mission id, so the
// primary mission (reserved id from Conventions) uses e.g.
// "main_mission_type" while a secondary "boss" uses "boss_mission_type".
const (
	propChapterID         = "chapter_id"
	propLevelName         = "level_name"
	propSecondaryMissions = "secondary_missions"

	missionTypeSuffix        = "_mission_type"
	missionDescriptionSuffix = "_mission_description"
	missionTurnsSuffix       = "_mission_turns"
	missionPlayersSuffix     = "_mission_players"
	missionGoldSuffix        = "_mission_gold"
)

// The map-properties bag is not an object; diagnostics need a stable name.
const propertiesObjectName = "map_properties"

// DecodeMetadata reads the level-wide fields of the map-properties bag.
// The metadata origin is derived from the coordinate transform by the
// orchestrator, not read from the file.
//
// Postcondition: on error, every independently-detectable problem is
// aggregated into the returned error.
func DecodeMetadata(props Properties) (MapMetadata, error) {
	var errs error
	meta := MapMetadata{}

	raw, ok := props.Get(propChapterID)
	switch {
	case !ok:
		errs = multierr.Append(errs, &MissingRequiredFieldError{Field: propChapterID, Object: propertiesObjectName})
	default:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			errs = multierr.Append(errs, &TypeMismatchError{Field: propChapterID, Expected: FieldInt.String(), Got: raw, Object: propertiesObjectName})
		} else {
			meta.ChapterID = n
		}
	}

	name, ok := props.Get(propLevelName)
	if !ok {
		errs = multierr.Append(errs, &MissingRequiredFieldError{Field: propLevelName, Object: propertiesObjectName})
	}
	meta.LevelName = name

	if errs != nil {
		return MapMetadata{}, errs
	}
	return meta, nil
}

// LinkMissions decodes every mission declared in the map-properties bag and
// cross-references it against the decoded dynamic objects: position missions
// must own at least one objective, kill-targets missions at least one foe.
//
// Precondition: objs are fully decoded (mission links resolve by InstanceID).
// Postcondition: returns a complete MissionSet or every linking failure.
func LinkMissions(props Properties, objs []DynamicObject, conv Conventions) (MissionSet, error) {
	var errs error

	primary, err := decodeMission(props, conv.PrimaryMissionID, objs)
	if err != nil {
		errs = multierr.Append(errs, err)
	}

	var secondary []MissionDefinition
	seen := map[string]bool{conv.PrimaryMissionID: true}
	for _, id := range secondaryMissionIDs(props) {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, ok := props.Get(id + missionTypeSuffix); !ok {
			errs = multierr.Append(errs, &DanglingMissionReferenceError{MissionID: id})
			continue
		}
		m, err := decodeMission(props, id, objs)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		secondary = append(secondary, m)
	}

	if errs != nil {
		return MissionSet{}, errs
	}
	return MissionSet{Primary: primary, Secondary: secondary}, nil
}

// secondaryMissionIDs splits the declared secondary mission id list. A
// malformed list is surfaced later as a dangling reference per token, so the
// split itself is permissive about blanks.
func secondaryMissionIDs(props Properties) []string {
	raw, ok := props.Get(propSecondaryMissions)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// decodeMission reads one mission's declaration and resolves its links.
func decodeMission(props Properties, id string, objs []DynamicObject) (MissionDefinition, error) {
	var errs error

	typeName, typePresent := props.Get(id + missionTypeSuffix)
	if !typePresent {
		errs = multierr.Append(errs, &MissingRequiredFieldError{Field: id + missionTypeSuffix, Object: propertiesObjectName})
	}
	description, ok := props.Get(id + missionDescriptionSuffix)
	if !ok {
		errs = multierr.Append(errs, &MissingRequiredFieldError{Field: id + missionDescriptionSuffix, Object: propertiesObjectName})
	}

	m := MissionDefinition{ID: id, Description: description}
	for _, key := range []struct {
		suffix string
		dst    *int
	}{
		{missionTurnsSuffix, &m.TurnLimit},
		{missionPlayersSuffix, &m.MinPlayers},
		{missionGoldSuffix, &m.Gold},
	} {
		raw, ok := props.Get(id + key.suffix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			errs = multierr.Append(errs, &TypeMismatchError{Field: id + key.suffix, Expected: FieldInt.String(), Got: raw, Object: propertiesObjectName})
			continue
		}
		*key.dst = n
	}

	if typePresent {
		mt, ok := resolveMissionType(typeName)
		if !ok {
			errs = multierr.Append(errs, &UnknownMissionTypeError{Name: typeName, MissionID: id})
		} else {
			m.Type = mt
			m.Targets = linkTargets(mt, id, objs)
			if mt.RequiresLink() && len(m.Targets) == 0 {
				errs = multierr.Append(errs, &UnlinkedMissionError{MissionID: id})
			}
		}
	}

	if errs != nil {
		return MissionDefinition{}, errs
	}
	return m, nil
}

// resolveMissionType matches a declared name against the mission-type
// vocabulary by exact name.
func resolveMissionType(name string) (MissionType, bool) {
	for _, t := range MissionTypes {
		if string(t) == name {
			return t, true
		}
	}
	return "", false
}

// linkTargets collects the InstanceIDs of the objects fulfilling a mission:
// objectives whose mission field matches for position missions, foes whose
// mission_target matches for kill-targets missions. Other types carry no
// linking requirement.
func linkTargets(t MissionType, missionID string, objs []DynamicObject) []string {
	var targets []string
	switch t {
	case MissionPosition, MissionTouchPosition:
		for _, obj := range objs {
			if o, ok := obj.(Objective); ok && o.MissionID == missionID {
				targets = append(targets, o.InstanceID)
			}
		}
	case MissionKillTargets:
		for _, obj := range objs {
			if f, ok := obj.(Foe); ok && f.MissionTarget == missionID {
				targets = append(targets, f.InstanceID)
			}
		}
	}
	return targets
}
