package tag

import "fmt"

// Code is the numeric tag type from a record header.
type Code uint16

const (
	CodeEnd                          Code = 0
	CodeShowFrame                    Code = 1
	CodeDefineShape                  Code = 2
	CodePlaceObject                  Code = 4
	CodeRemoveObject                 Code = 5
	CodeDefineBits                   Code = 6
	CodeDefineButton                 Code = 7
	CodeJPEGTables                   Code = 8
	CodeSetBackgroundColor           Code = 9
	CodeDefineFont                   Code = 10
	CodeDefineText                   Code = 11
	CodeDoAction                     Code = 12
	CodeDefineFontInfo               Code = 13
	CodeDefineSound                  Code = 14
	CodeStartSound                   Code = 15
	CodeDefineButtonSound            Code = 17
	CodeSoundStreamHead              Code = 18
	CodeSoundStreamBlock             Code = 19
	CodeDefineBitsLossless           Code = 20
	CodeDefineBitsJPEG2              Code = 21
	CodeDefineShape2                 Code = 22
	CodeDefineButtonCxform           Code = 23
	CodeProtect                      Code = 24
	CodePlaceObject2                 Code = 26
	CodeRemoveObject2                Code = 28
	CodeDefineShape3                 Code = 32
	CodeDefineText2                  Code = 33
	CodeDefineButton2                Code = 34
	CodeDefineBitsJPEG3              Code = 35
	CodeDefineBitsLossless2          Code = 36
	CodeDefineEditText               Code = 37
	CodeDefineSprite                 Code = 39
	CodeFrameLabel                   Code = 43
	CodeSoundStreamHead2             Code = 45
	CodeDefineMorphShape             Code = 46
	CodeDefineFont2                  Code = 48
	CodeExportAssets                 Code = 56
	CodeImportAssets                 Code = 57
	CodeEnableDebugger               Code = 58
	CodeDoInitAction                 Code = 59
	CodeDefineVideoStream            Code = 60
	CodeVideoFrame                   Code = 61
	CodeDefineFontInfo2              Code = 62
	CodeEnableDebugger2              Code = 64
	CodeScriptLimits                 Code = 65
	CodeSetTabIndex                  Code = 66
	CodeFileAttributes               Code = 69
	CodePlaceObject3                 Code = 70
	CodeImportAssets2                Code = 71
	CodeDefineFontAlignZones         Code = 73
	CodeCSMTextSettings              Code = 74
	CodeDefineFont3                  Code = 75
	CodeSymbolClass                  Code = 76
	CodeMetadata                     Code = 77
	CodeDefineScalingGrid            Code = 78
	CodeDoABC                        Code = 82
	CodeDefineShape4                 Code = 83
	CodeDefineMorphShape2            Code = 84
	CodeDefineSceneAndFrameLabelData Code = 86
	CodeDefineBinaryData             Code = 87
	CodeDefineFontName               Code = 88
	CodeStartSound2                  Code = 89
	CodeDefineBitsJPEG4              Code = 90
	CodeDefineFont4                  Code = 91
)

var codeNames = map[Code]string{
	CodeEnd:                          "End",
	CodeShowFrame:                    "ShowFrame",
	CodeDefineShape:                  "DefineShape",
	CodePlaceObject:                  "PlaceObject",
	CodeRemoveObject:                 "RemoveObject",
	CodeDefineBits:                   "DefineBits",
	CodeDefineButton:                 "DefineButton",
	CodeJPEGTables:                   "JPEGTables",
	CodeSetBackgroundColor:           "SetBackgroundColor",
	CodeDefineFont:                   "DefineFont",
	CodeDefineText:                   "DefineText",
	CodeDoAction:                     "DoAction",
	CodeDefineFontInfo:               "DefineFontInfo",
	CodeDefineSound:                  "DefineSound",
	CodeStartSound:                   "StartSound",
	CodeDefineButtonSound:            "DefineButtonSound",
	CodeSoundStreamHead:              "SoundStreamHead",
	CodeSoundStreamBlock:             "SoundStreamBlock",
	CodeDefineBitsLossless:           "DefineBitsLossless",
	CodeDefineBitsJPEG2:              "DefineBitsJPEG2",
	CodeDefineShape2:                 "DefineShape2",
	CodeDefineButtonCxform:           "DefineButtonCxform",
	CodeProtect:                      "Protect",
	CodePlaceObject2:                 "PlaceObject2",
	CodeRemoveObject2:                "RemoveObject2",
	CodeDefineShape3:                 "DefineShape3",
	CodeDefineText2:                  "DefineText2",
	CodeDefineButton2:                "DefineButton2",
	CodeDefineBitsJPEG3:              "DefineBitsJPEG3",
	CodeDefineBitsLossless2:          "DefineBitsLossless2",
	CodeDefineEditText:               "DefineEditText",
	CodeDefineSprite:                 "DefineSprite",
	CodeFrameLabel:                   "FrameLabel",
	CodeSoundStreamHead2:             "SoundStreamHead2",
	CodeDefineMorphShape:             "DefineMorphShape",
	CodeDefineFont2:                  "DefineFont2",
	CodeExportAssets:                 "ExportAssets",
	CodeImportAssets:                 "ImportAssets",
	CodeEnableDebugger:               "EnableDebugger",
	CodeDoInitAction:                 "DoInitAction",
	CodeDefineVideoStream:            "DefineVideoStream",
	CodeVideoFrame:                   "VideoFrame",
	CodeDefineFontInfo2:              "DefineFontInfo2",
	CodeEnableDebugger2:              "EnableDebugger2",
	CodeScriptLimits:                 "ScriptLimits",
	CodeSetTabIndex:                  "SetTabIndex",
	CodeFileAttributes:               "FileAttributes",
	CodePlaceObject3:                 "PlaceObject3",
	CodeImportAssets2:                "ImportAssets2",
	CodeDefineFontAlignZones:         "DefineFontAlignZones",
	CodeCSMTextSettings:              "CSMTextSettings",
	CodeDefineFont3:                  "DefineFont3",
	CodeSymbolClass:                  "SymbolClass",
	CodeMetadata:                     "Metadata",
	CodeDefineScalingGrid:            "DefineScalingGrid",
	CodeDoABC:                        "DoABC",
	CodeDefineShape4:                 "DefineShape4",
	CodeDefineMorphShape2:            "DefineMorphShape2",
	CodeDefineSceneAndFrameLabelData: "DefineSceneAndFrameLabelData",
	CodeDefineBinaryData:             "DefineBinaryData",
	CodeDefineFontName:               "DefineFontName",
	CodeStartSound2:                  "StartSound2",
	CodeDefineBitsJPEG4:              "DefineBitsJPEG4",
	CodeDefineFont4:                  "DefineFont4",
}

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("Tag(%d)", uint16(c))
}

func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// AllowedInSprite reports whether the tag may appear in a sprite timeline.
// Only control tags qualify.
func (c Code) AllowedInSprite() bool {
	switch c {
	case CodeEnd, CodeShowFrame,
		CodePlaceObject, CodePlaceObject2, CodePlaceObject3,
		CodeRemoveObject, CodeRemoveObject2,
		CodeStartSound, CodeStartSound2,
		CodeSoundStreamHead, CodeSoundStreamHead2, CodeSoundStreamBlock,
		CodeFrameLabel, CodeDoAction:
		return true
	}
	return false
}
