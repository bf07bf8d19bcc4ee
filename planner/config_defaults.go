package planner

// Shipped default configuration. The YAML documents under configs/ mirror these
// values; loading starts from the defaults so a partial document only overrides
// what it mentions.

func defaultPatternCompatibility() map[MovementPattern][]MovementPattern {
	return map[MovementPattern][]MovementPattern{
		PatternSquat:          {PatternLunge},
		PatternLunge:          {PatternSquat},
		PatternHinge:          {PatternSquat},
		PatternHorizontalPush: {PatternVerticalPush},
		PatternVerticalPush:   {PatternHorizontalPush},
		PatternHorizontalPull: {PatternVerticalPull},
		PatternVerticalPull:   {PatternHorizontalPull},
		PatternOlympic:        {PatternHinge, PatternSquat},
	}
}

func boolPtr(b bool) *bool { return &b }

func f64Ptr(f float64) *float64 { return &f }

func intPtr(v int) *int { return &v }

// DefaultScoringConfig returns the shipped movement-scoring configuration.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Dimensions: []DimensionConfig{
			{
				Name: DimPatternAlignment, Priority: 1, Weight: 1.5,
				Rules: []RuleConfig{
					{Name: RuleExactPatternMatch, Score: 1.0, Priority: 100},
					{Name: RuleCompatiblePattern, Score: 0.7, Priority: 80},
					{Name: RuleNoRequiredPattern, Score: 0.6, Priority: 50},
				},
			},
			{
				Name: DimMuscleCoverage, Priority: 2, Weight: 1.3,
				Rules: []RuleConfig{
					{Name: RulePrimaryTargetMuscle, Score: 1.0, Priority: 100},
					{Name: RuleSynergistTargetMuscle, Score: 0.6, Priority: 80},
					{Name: RuleNoTargetMuscles, Score: 0.5, Priority: 50},
				},
			},
			{
				Name: DimCompoundBonus, Priority: 3, Weight: 1.0,
				Rules: []RuleConfig{
					{Name: RuleCompoundMovement, Score: 1.0, Priority: 100},
					{Name: RuleIsolationMovement, Score: 0.4, Priority: 50},
				},
			},
			{
				Name: DimDisciplineAlignment, Priority: 4, Weight: 1.0,
				Rules: []RuleConfig{
					{Name: RuleStrongPreference, Score: 1.0, Priority: 100},
					{Name: RuleModeratePreference, Score: 0.7, Priority: 80},
					{Name: RuleWeakPreference, Score: 0.4, Priority: 60},
					{Name: RuleNoPreferenceSignal, Score: 0.5, Priority: 40},
				},
			},
			{
				Name: DimSkillMatch, Priority: 5, Weight: 0.8,
				Rules: []RuleConfig{
					{Name: RuleSkillWithinLevel, Score: 1.0, Priority: 100},
					{Name: RuleSkillOneAbove, Score: 0.6, Priority: 80},
					{Name: RuleSkillTooAdvanced, Score: 0.1, Priority: 60},
				},
			},
			{
				Name: DimTierQuality, Priority: 6, Weight: 0.7,
				Rules: []RuleConfig{
					{Name: RuleTierGold, Score: 1.0, Priority: 100},
					{Name: RuleTierSilver, Score: 0.75, Priority: 80},
					{Name: RuleTierBronze, Score: 0.4, Priority: 60},
					{Name: RuleTierGeneric, Score: 0.2, Priority: 40},
				},
			},
			{
				Name: DimNovelty, Priority: 7, Weight: 0.7,
				Rules: []RuleConfig{
					{Name: RuleUsedThisSession, Score: 0.0, Priority: 100},
					{Name: RuleUsedThisMicrocycle, Score: 0.4, Priority: 80},
					{Name: RuleFresh, Score: 1.0, Priority: 50},
				},
			},
		},
		PatternCompatibility: defaultPatternCompatibility(),
		GoalProfiles: map[Goal]GoalProfile{
			GoalStrength: {
				DimPatternAlignment: 1.1, DimMuscleCoverage: 1.0, DimCompoundBonus: 1.2,
				DimDisciplineAlignment: 1.0, DimSkillMatch: 1.0, DimTierQuality: 1.1,
				DimNovelty: 0.9,
			},
			GoalHypertrophy: {
				DimPatternAlignment: 1.0, DimMuscleCoverage: 1.2, DimCompoundBonus: 1.0,
				DimDisciplineAlignment: 0.9, DimSkillMatch: 1.0, DimTierQuality: 1.0,
				DimNovelty: 1.1,
			},
			GoalEndurance: {
				DimPatternAlignment: 0.9, DimMuscleCoverage: 1.1, DimCompoundBonus: 1.0,
				DimDisciplineAlignment: 1.0, DimSkillMatch: 1.0, DimTierQuality: 0.9,
				DimNovelty: 1.1,
			},
			GoalFatLoss: {
				DimPatternAlignment: 0.9, DimMuscleCoverage: 1.0, DimCompoundBonus: 1.2,
				DimDisciplineAlignment: 0.9, DimSkillMatch: 1.0, DimTierQuality: 0.9,
				DimNovelty: 1.1,
			},
			GoalSkill: {
				DimPatternAlignment: 1.1, DimMuscleCoverage: 0.9, DimCompoundBonus: 1.0,
				DimDisciplineAlignment: 1.2, DimSkillMatch: 1.2, DimTierQuality: 1.0,
				DimNovelty: 0.9,
			},
			GoalGeneral: {
				DimPatternAlignment: 1.0, DimMuscleCoverage: 1.0, DimCompoundBonus: 1.0,
				DimDisciplineAlignment: 1.0, DimSkillMatch: 1.0, DimTierQuality: 1.0,
				DimNovelty: 1.0,
			},
		},
		DisciplineModifiers: map[Discipline]float64{
			DisciplineOlympic:      1.2,
			DisciplinePowerlifting: 1.1,
			DisciplineCalisthenics: 1.0,
			DisciplineBodybuilding: 1.0,
			DisciplineCrossfit:     1.0,
			DisciplineEndurance:    0.9,
			DisciplineMobility:     0.9,
		},
		HardConstraints: HardConstraints{
			QualificationThreshold: 0.5,
			MaxSkillGap:            1,
		},
		RepSetRanges: map[string]RepSetRange{
			"warmup":    {RepsMin: 8, RepsMax: 15, SetsMin: 1, SetsDefault: 2, SetsMax: 2, RestSeconds: 30},
			"main":      {RepsMin: 3, RepsMax: 8, SetsMin: 3, SetsDefault: 4, SetsMax: 5, RestSeconds: 180},
			"accessory": {RepsMin: 8, RepsMax: 15, SetsMin: 2, SetsDefault: 3, SetsMax: 4, RestSeconds: 90},
			"cooldown":  {RepsMin: 5, RepsMax: 12, SetsMin: 1, SetsDefault: 1, SetsMax: 2, RestSeconds: 0},
		},
		CircuitRanges: map[CircuitType]CircuitRange{
			CircuitAMRAP:         {MinDurationSeconds: 300, MaxDurationSeconds: 1200, MaxMovements: 6},
			CircuitEMOM:          {MinDurationSeconds: 300, MaxDurationSeconds: 1800, MaxMovements: 4},
			CircuitRoundsForTime: {MinDurationSeconds: 300, MaxDurationSeconds: 1500, MaxMovements: 6},
			CircuitTabata:        {MinDurationSeconds: 240, MaxDurationSeconds: 480, MaxMovements: 2},
			CircuitLadder:        {MinDurationSeconds: 300, MaxDurationSeconds: 1200, MaxMovements: 4},
		},
	}
}

// DefaultRelaxationSteps returns the shipped 7-step ladder:
// step 0 strict, step 6 emergency.
func DefaultRelaxationSteps() []RelaxationStepConfig {
	return []RelaxationStepConfig{
		{Step: 0},
		{Step: 1, PatternCompatibilityExpansion: true},
		{Step: 2, IncludeSynergistMuscles: true},
		{Step: 3, DisciplineWeightMultiplier: f64Ptr(0.7)},
		{Step: 4, AllowIsolationMovements: true},
		{Step: 5, AllowGenericMovements: true},
		{Step: 6, EmergencyMode: true},
	}
}

// DefaultOptimizationConfig returns the shipped optimization configuration.
func DefaultOptimizationConfig() *OptimizationConfig {
	return &OptimizationConfig{
		Solver: SolverConfig{
			SecondsPerSet:        180,
			VolumeReductionPct:   0.1,
			MaxPerMuscle:         2,
			OptimalMovementCount: 8,
			AllowCircuits:        true,
			MaxRelaxationSteps:   intPtr(6),
		},
		Emergency: EmergencyConfig{
			VolumeMultiplier:   0.5,
			FatigueMultiplier:  1.5,
			DurationMultiplier: 1.25,
		},
		ProgressiveRelaxation: DefaultRelaxationSteps(),
		RPE: RPEConfig{
			Warmup:   RPERange{Min: 3.0, Max: 4.0},
			Cooldown: RPERange{Min: 3.0, Max: 4.0},
			Programs: map[string]RPEProgramProfile{
				ProgramStrength: {
					Main:      RPERange{Min: 7.0, Max: 9.0},
					Accessory: RPERange{Min: 6.0, Max: 8.0},
				},
				ProgramHypertrophy: {
					Main:      RPERange{Min: 6.5, Max: 8.5},
					Accessory: RPERange{Min: 6.0, Max: 8.0},
				},
				ProgramEndurance: {
					Main:      RPERange{Min: 5.0, Max: 7.0},
					Accessory: RPERange{Min: 5.0, Max: 6.5},
				},
			},
			PhaseProgression: map[string]float64{
				PhaseAccumulation:    0.0,
				PhaseIntensification: 0.5,
				PhasePeaking:         1.0,
				PhaseDeload:          -2.0,
			},
			CNSCap: 8.5,
			Fatigue: RPEFatigueConfig{
				SleepLow:            FatigueRule{Threshold: 6.0, Penalty: -0.5},
				SleepVeryLow:        FatigueRule{Threshold: 5.0, Penalty: -1.0},
				HRVDrop:             FatigueRule{Threshold: 20.0, Penalty: -0.5},
				Soreness:            FatigueRule{Threshold: 7.0, Penalty: -0.5},
				ConsecutiveHighDays: FatigueRule{Threshold: 2.0, Penalty: -0.5},
				FloorMin:            3.0,
				FloorMax:            4.0,
			},
			Recovery: RPERecoveryConfig{
				RPE8Hours:  60,
				RPE67Hours: 72,
				FloorMin:   4.0,
				FloorMax:   5.0,
			},
			FrequencyCap: RPEFrequencyCapConfig{
				HighSetThreshold: 6,
				TriggerMax:       8.0,
				CappedMax:        7.5,
			},
		},
		Reload: ReloadConfig{
			Enabled:         false,
			IntervalSeconds: 30,
			Mode:            ReloadModePoll,
		},
	}
}
